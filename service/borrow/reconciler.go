package borrow

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RashmiRanjanSahu1997/library-management/model"
	borrowrepo "github.com/RashmiRanjanSahu1997/library-management/repository/borrow"
	"github.com/RashmiRanjanSahu1997/library-management/service/apperr"
)

// reconcile keeps the book's available_copies in step with a freshly
// persisted status change. It runs inside the same transaction as the
// transition so the adjustment commits or rolls back with it.
//
// The unset approved_at/returned_at guard makes the adjustment
// idempotent per transition: re-saving an already-approved request does
// not decrement a second time.
func (s *service) reconcile(ctx context.Context, tx *sql.Tx, br *model.BorrowRequest) error {
	switch {
	case br.Status == model.BorrowApproved && br.ApprovedAt == nil:
		now := s.now().UTC()
		if err := s.r.SetApprovedAt(ctx, tx, br.ID, now); err != nil {
			return err
		}
		br.ApprovedAt = &now
		if err := s.r.DecrementAvailable(ctx, tx, br.BookID); err != nil {
			if errors.Is(err, borrowrepo.ErrNoCopies) {
				return apperr.New(ErrNoCopies)
			}
			return err
		}

	case br.Status == model.BorrowReturned && br.ReturnedAt == nil:
		now := s.now().UTC()
		if err := s.r.SetReturnedAt(ctx, tx, br.ID, now); err != nil {
			return err
		}
		br.ReturnedAt = &now
		// increment is capped at total_copies in the repository
		if err := s.r.IncrementAvailable(ctx, tx, br.BookID); err != nil {
			return err
		}
	}
	return nil
}
