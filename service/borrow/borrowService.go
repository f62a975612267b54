package borrow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	borrowrepo "github.com/RashmiRanjanSahu1997/library-management/repository/borrow"
	"github.com/RashmiRanjanSahu1997/library-management/repository/mail"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
)

const (
	ErrBookNotFound apperr.Code = "BOOK_NOT_FOUND"
	ErrNotFound     apperr.Code = "NOT_FOUND"
	ErrNotPending   apperr.Code = "NOT_PENDING"
	ErrNotApproved  apperr.Code = "NOT_APPROVED"
	ErrNoCopies     apperr.Code = "NO_COPIES"
	ErrNotOwner     apperr.Code = "NOT_OWNER"
	ErrThrottled    apperr.Code = "THROTTLED"
)

// LedgerRow = repository shape
type LedgerRow = borrowrepo.LedgerRow

type Repo interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)
	Insert(ctx context.Context, bookID, userID int64) (*model.BorrowRequest, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BorrowRequest, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.BorrowStatus) error
	SetApprovedAt(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error
	SetReturnedAt(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error
	DecrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error
	IncrementAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error

	ListAll(ctx context.Context) ([]LedgerRow, error)
	ListByUser(ctx context.Context, userID int64) ([]LedgerRow, error)
	RequestContact(ctx context.Context, id int64) (email, bookTitle string, err error)
}

// TxRunner runs a function inside one storage transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Limiter caps borrow creation per user over a rolling window.
type Limiter interface {
	Allow(key int64) bool
}

type Service interface {
	// Create registers a PENDING request. Throttled before any write.
	Create(ctx context.Context, userID, bookID int64) (*model.BorrowRequest, error)

	// Approve moves PENDING to APPROVED and takes one copy.
	Approve(ctx context.Context, id int64) (*model.BorrowRequest, error)

	// Reject moves PENDING to REJECTED.
	Reject(ctx context.Context, id int64) (*model.BorrowRequest, error)

	// Return moves APPROVED to RETURNED and frees the copy. Allowed for
	// the owning user or a librarian.
	Return(ctx context.Context, callerID int64, callerRole model.Role, id int64) (*model.BorrowRequest, error)

	// List returns all requests for librarians, own requests otherwise.
	List(ctx context.Context, callerID int64, callerRole model.Role) ([]LedgerRow, error)
}

type service struct {
	db  TxRunner
	r   Repo
	lim Limiter
	mx  mail.Mailer
	log *slog.Logger
	now func() time.Time
}

func New(db TxRunner, r Repo, lim Limiter, mx mail.Mailer, log *slog.Logger) Service {
	return &service{db: db, r: r, lim: lim, mx: mx, log: log, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID, bookID int64) (*model.BorrowRequest, error) {
	if !s.lim.Allow(userID) {
		return nil, apperr.New(ErrThrottled)
	}

	exists, err := s.r.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.New(ErrBookNotFound)
	}

	// No availability check here: a request may wait on a copy.
	return s.r.Insert(ctx, bookID, userID)
}

func (s *service) Approve(ctx context.Context, id int64) (*model.BorrowRequest, error) {
	var br *model.BorrowRequest
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		br, err = s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return mapMissing(err)
		}
		if br.Status != model.BorrowPending {
			return apperr.New(ErrNotPending)
		}
		br.Status = model.BorrowApproved
		if err := s.r.SetStatus(ctx, tx, br.ID, br.Status); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, br)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, br, func(email, title string) mail.Message {
		approvedAt := ""
		if br.ApprovedAt != nil {
			approvedAt = br.ApprovedAt.Format(time.RFC3339)
		}
		return mail.Message{
			To:      email,
			Subject: fmt.Sprintf("Your borrow request for '%s' has been approved", title),
			Body: fmt.Sprintf("Hello %s,\n\nYour request to borrow the book '%s' has been approved.\n"+
				"Approved at: %s\nPlease collect the book from the library.\n\nRegards,\nLibrary Team",
				email, title, approvedAt),
		}
	})
	return br, nil
}

func (s *service) Reject(ctx context.Context, id int64) (*model.BorrowRequest, error) {
	var br *model.BorrowRequest
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		br, err = s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return mapMissing(err)
		}
		if br.Status != model.BorrowPending {
			return apperr.New(ErrNotPending)
		}
		br.Status = model.BorrowRejected
		if err := s.r.SetStatus(ctx, tx, br.ID, br.Status); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, br)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, br, func(email, title string) mail.Message {
		return mail.Message{
			To:      email,
			Subject: fmt.Sprintf("Your borrow request for '%s' has been rejected", title),
			Body: fmt.Sprintf("Hello %s,\n\nWe are sorry to inform you that your request to borrow "+
				"the book '%s' was rejected.\nIf you have questions, please contact the library.\n\n"+
				"Regards,\nLibrary Team", email, title),
		}
	})
	return br, nil
}

func (s *service) Return(ctx context.Context, callerID int64, callerRole model.Role, id int64) (*model.BorrowRequest, error) {
	var br *model.BorrowRequest
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		br, err = s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return mapMissing(err)
		}
		if br.UserID != callerID && callerRole != model.RoleLibrarian {
			return apperr.New(ErrNotOwner)
		}
		if br.Status != model.BorrowApproved {
			return apperr.New(ErrNotApproved)
		}
		br.Status = model.BorrowReturned
		if err := s.r.SetStatus(ctx, tx, br.ID, br.Status); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, br)
	})
	if err != nil {
		return nil, err
	}
	return br, nil
}

func (s *service) List(ctx context.Context, callerID int64, callerRole model.Role) ([]LedgerRow, error) {
	if callerRole == model.RoleLibrarian {
		return s.r.ListAll(ctx)
	}
	return s.r.ListByUser(ctx, callerID)
}

func mapMissing(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(ErrNotFound)
	}
	return err
}

// notify sends the approve/reject mail after the transition committed.
// Delivery is best-effort: failures are logged and swallowed.
func (s *service) notify(ctx context.Context, br *model.BorrowRequest, compose func(email, title string) mail.Message) {
	email, title, err := s.r.RequestContact(ctx, br.ID)
	if err != nil || email == "" {
		if err != nil {
			s.log.Warn("borrow notify: contact lookup failed", "request_id", br.ID, "err", err)
		}
		return
	}
	if err := s.mx.Send(ctx, compose(email, title)); err != nil {
		s.log.Warn("borrow notify: send failed", "request_id", br.ID, "err", err)
	}
}
