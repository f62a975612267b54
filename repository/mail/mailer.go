package mail

import "context"

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers notification mail. Callers treat delivery as
// best-effort: a failed send never affects the operation that
// triggered it.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}
