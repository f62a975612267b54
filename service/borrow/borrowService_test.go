package borrow

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	borrowrepo "github.com/RashmiRanjanSahu1997/library-management/repository/borrow"
	"github.com/RashmiRanjanSahu1997/library-management/repository/mail"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
)

// --- fakes ---

type fakeBook struct {
	title     string
	available int64
	total     int64
}

type fakeRepo struct {
	books  map[int64]*fakeBook
	users  map[int64]string
	reqs   map[int64]*model.BorrowRequest
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books: map[int64]*fakeBook{},
		users: map[int64]string{},
		reqs:  map[int64]*model.BorrowRequest{},
	}
}

func (f *fakeRepo) clone() *fakeRepo {
	c := newFakeRepo()
	c.nextID = f.nextID
	for id, b := range f.books {
		cp := *b
		c.books[id] = &cp
	}
	for id, e := range f.users {
		c.users[id] = e
	}
	for id, r := range f.reqs {
		cp := *r
		c.reqs[id] = &cp
	}
	return c
}

func (f *fakeRepo) BookExists(_ context.Context, bookID int64) (bool, error) {
	_, ok := f.books[bookID]
	return ok, nil
}

func (f *fakeRepo) Insert(_ context.Context, bookID, userID int64) (*model.BorrowRequest, error) {
	f.nextID++
	br := &model.BorrowRequest{
		ID:          f.nextID,
		BookID:      bookID,
		UserID:      userID,
		Status:      model.BorrowPending,
		RequestedAt: time.Now().UTC(),
	}
	cp := *br
	f.reqs[br.ID] = &cp
	return br, nil
}

func (f *fakeRepo) GetForUpdate(_ context.Context, _ *sql.Tx, id int64) (*model.BorrowRequest, error) {
	r, ok := f.reqs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) SetStatus(_ context.Context, _ *sql.Tx, id int64, status model.BorrowStatus) error {
	f.reqs[id].Status = status
	return nil
}

func (f *fakeRepo) SetApprovedAt(_ context.Context, _ *sql.Tx, id int64, at time.Time) error {
	t := at
	f.reqs[id].ApprovedAt = &t
	return nil
}

func (f *fakeRepo) SetReturnedAt(_ context.Context, _ *sql.Tx, id int64, at time.Time) error {
	t := at
	f.reqs[id].ReturnedAt = &t
	return nil
}

func (f *fakeRepo) DecrementAvailable(_ context.Context, _ *sql.Tx, bookID int64) error {
	b := f.books[bookID]
	if b.available <= 0 {
		return borrowrepo.ErrNoCopies
	}
	b.available--
	return nil
}

func (f *fakeRepo) IncrementAvailable(_ context.Context, _ *sql.Tx, bookID int64) error {
	b := f.books[bookID]
	if b.available < b.total {
		b.available++
	}
	return nil
}

func (f *fakeRepo) ListAll(context.Context) ([]LedgerRow, error) {
	var out []LedgerRow
	for _, r := range f.reqs {
		out = append(out, LedgerRow{ID: r.ID, UserID: r.UserID, Status: string(r.Status)})
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]LedgerRow, error) {
	var out []LedgerRow
	for _, r := range f.reqs {
		if r.UserID == userID {
			out = append(out, LedgerRow{ID: r.ID, UserID: r.UserID, Status: string(r.Status)})
		}
	}
	return out, nil
}

func (f *fakeRepo) RequestContact(_ context.Context, id int64) (string, string, error) {
	r, ok := f.reqs[id]
	if !ok {
		return "", "", sql.ErrNoRows
	}
	return f.users[r.UserID], f.books[r.BookID].title, nil
}

// fakeDB restores repo state when fn fails, mimicking a rollback.
type fakeDB struct{ r *fakeRepo }

func (d *fakeDB) WithTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	snap := d.r.clone()
	if err := fn(nil); err != nil {
		*d.r = *snap
		return err
	}
	return nil
}

type mailerMock struct {
	sent []mail.Message
	err  error
}

func (m *mailerMock) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type limiterFunc func(int64) bool

func (f limiterFunc) Allow(key int64) bool { return f(key) }

var allowAll = limiterFunc(func(int64) bool { return true })

func newTestService(r *fakeRepo, lim Limiter, mx mail.Mailer) *service {
	return New(&fakeDB{r: r}, r, lim, mx, slog.New(slog.NewTextHandler(testWriter{}, nil))).(*service)
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func seed(r *fakeRepo) {
	r.books[1] = &fakeBook{title: "The Go Programming Language", available: 2, total: 2}
	r.users[10] = "student-a@example.com"
	r.users[11] = "student-b@example.com"
	r.users[12] = "student-c@example.com"
}

// --- create ---

func TestCreate_Pending(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, err := s.Create(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Equal(t, model.BorrowPending, br.Status)
	require.False(t, br.RequestedAt.IsZero())
	// no availability check at creation time
	require.Equal(t, int64(2), r.books[1].available)
}

func TestCreate_BookMissing(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	_, err := s.Create(context.Background(), 10, 999)
	require.Error(t, err)
	require.Equal(t, ErrBookNotFound, apperr.CodeOf(err))
}

func TestCreate_Throttled(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	deny := limiterFunc(func(int64) bool { return false })
	s := newTestService(r, deny, &mailerMock{})

	_, err := s.Create(context.Background(), 10, 1)
	require.Error(t, err)
	require.Equal(t, ErrThrottled, apperr.CodeOf(err))
	require.Empty(t, r.reqs, "throttled create must not write")
}

// --- approve ---

func TestApprove_Pending(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	mx := &mailerMock{}
	s := newTestService(r, allowAll, mx)

	br, _ := s.Create(context.Background(), 10, 1)
	out, err := s.Approve(context.Background(), br.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowApproved, out.Status)
	require.NotNil(t, out.ApprovedAt)
	require.Equal(t, int64(1), r.books[1].available)

	require.Len(t, mx.sent, 1)
	require.Equal(t, "student-a@example.com", mx.sent[0].To)
	require.Contains(t, mx.sent[0].Subject, "approved")
}

func TestApprove_NotPending(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	_, err := s.Approve(context.Background(), br.ID)
	require.NoError(t, err)

	_, err = s.Approve(context.Background(), br.ID)
	require.Error(t, err)
	require.Equal(t, ErrNotPending, apperr.CodeOf(err))
	require.Equal(t, int64(1), r.books[1].available, "second approve must not decrement again")
}

func TestApprove_NoCopies(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	r.books[1].available = 0
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	_, err := s.Approve(context.Background(), br.ID)
	require.Error(t, err)
	require.Equal(t, ErrNoCopies, apperr.CodeOf(err))
	require.Equal(t, model.BorrowPending, r.reqs[br.ID].Status, "failed approve must roll back the status")
	require.Nil(t, r.reqs[br.ID].ApprovedAt)
}

func TestApprove_Missing(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	_, err := s.Approve(context.Background(), 404)
	require.Error(t, err)
	require.Equal(t, ErrNotFound, apperr.CodeOf(err))
}

func TestApprove_MailFailureDoesNotFailTransition(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	mx := &mailerMock{err: errors.New("smtp down")}
	s := newTestService(r, allowAll, mx)

	br, _ := s.Create(context.Background(), 10, 1)
	out, err := s.Approve(context.Background(), br.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowApproved, out.Status)
	require.Equal(t, int64(1), r.books[1].available)
}

// --- reject ---

func TestReject_Pending(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	mx := &mailerMock{}
	s := newTestService(r, allowAll, mx)

	br, _ := s.Create(context.Background(), 10, 1)
	out, err := s.Reject(context.Background(), br.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowRejected, out.Status)
	require.Equal(t, int64(2), r.books[1].available, "reject must not touch copies")

	require.Len(t, mx.sent, 1)
	require.True(t, strings.Contains(mx.sent[0].Subject, "rejected"))
}

func TestReject_NotPending(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	_, err := s.Reject(context.Background(), br.ID)
	require.NoError(t, err)

	_, err = s.Reject(context.Background(), br.ID)
	require.Error(t, err)
	require.Equal(t, ErrNotPending, apperr.CodeOf(err))
}

// --- return ---

func TestReturn_ByOwner(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	_, err := s.Approve(context.Background(), br.ID)
	require.NoError(t, err)

	out, err := s.Return(context.Background(), 10, model.RoleStudent, br.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowReturned, out.Status)
	require.NotNil(t, out.ReturnedAt)
	require.Equal(t, int64(2), r.books[1].available)
}

func TestReturn_ByLibrarian(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	_, err := s.Approve(context.Background(), br.ID)
	require.NoError(t, err)

	_, err = s.Return(context.Background(), 99, model.RoleLibrarian, br.ID)
	require.NoError(t, err)
}

func TestReturn_NotOwner(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	_, err := s.Approve(context.Background(), br.ID)
	require.NoError(t, err)

	_, err = s.Return(context.Background(), 11, model.RoleStudent, br.ID)
	require.Error(t, err)
	require.Equal(t, ErrNotOwner, apperr.CodeOf(err))
	require.Equal(t, model.BorrowApproved, r.reqs[br.ID].Status, "no state change on forbidden return")
	require.Equal(t, int64(1), r.books[1].available)
}

func TestReturn_NotApproved(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	_, err := s.Return(context.Background(), 10, model.RoleStudent, br.ID)
	require.Error(t, err)
	require.Equal(t, ErrNotApproved, apperr.CodeOf(err))
}

// --- reconciler ---

func TestReconcile_IdempotentPerTransition(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	req := r.reqs[br.ID]
	req.Status = model.BorrowApproved

	require.NoError(t, s.reconcile(context.Background(), nil, req))
	require.Equal(t, int64(1), r.books[1].available)
	require.NotNil(t, req.ApprovedAt)

	// approved_at already set, so a re-save adjusts nothing
	require.NoError(t, s.reconcile(context.Background(), nil, req))
	require.Equal(t, int64(1), r.books[1].available)
}

func TestReconcile_ReturnCappedAtTotal(t *testing.T) {
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	br, _ := s.Create(context.Background(), 10, 1)
	req := r.reqs[br.ID]
	req.Status = model.BorrowReturned

	// available already at total
	require.NoError(t, s.reconcile(context.Background(), nil, req))
	require.Equal(t, int64(2), r.books[1].available)
	require.NotNil(t, req.ReturnedAt)
}

// --- end to end over the state machine ---

func TestScenario_TwoCopiesThreeStudents(t *testing.T) {
	ctx := context.Background()
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	a, _ := s.Create(ctx, 10, 1)
	_, err := s.Approve(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), r.books[1].available)

	b, _ := s.Create(ctx, 11, 1)
	_, err = s.Approve(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), r.books[1].available)

	c, _ := s.Create(ctx, 12, 1)
	_, err = s.Approve(ctx, c.ID)
	require.Error(t, err)
	require.Equal(t, ErrNoCopies, apperr.CodeOf(err))
	require.Equal(t, model.BorrowPending, r.reqs[c.ID].Status)

	out, err := s.Return(ctx, 10, model.RoleStudent, a.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowReturned, out.Status)
	require.Equal(t, int64(1), r.books[1].available)
}

// --- listing ---

func TestList_RoleScoping(t *testing.T) {
	ctx := context.Background()
	r := newFakeRepo()
	seed(r)
	s := newTestService(r, allowAll, &mailerMock{})

	_, err := s.Create(ctx, 10, 1)
	require.NoError(t, err)
	_, err = s.Create(ctx, 11, 1)
	require.NoError(t, err)

	all, err := s.List(ctx, 99, model.RoleLibrarian)
	require.NoError(t, err)
	require.Len(t, all, 2)

	own, err := s.List(ctx, 10, model.RoleStudent)
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.Equal(t, int64(10), own[0].UserID)
}
