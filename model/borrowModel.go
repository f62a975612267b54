package model

import "time"

type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "PENDING"
	BorrowApproved BorrowStatus = "APPROVED"
	BorrowRejected BorrowStatus = "REJECTED"
	BorrowReturned BorrowStatus = "RETURNED"
)

type BorrowRequest struct {
	ID          int64        `json:"id"`
	BookID      int64        `json:"book_id"`
	UserID      int64        `json:"user_id"`
	Status      BorrowStatus `json:"status"`
	RequestedAt time.Time    `json:"requested_at"`
	ApprovedAt  *time.Time   `json:"approved_at,omitempty"`
	ReturnedAt  *time.Time   `json:"returned_at,omitempty"`
}
