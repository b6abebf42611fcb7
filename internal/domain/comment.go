package domain

import "time"

// CommentKind differentiates plain comments from lifecycle comments.
type CommentKind string

const (
	CommentKindComment CommentKind = "COMMENT"
	CommentKindClosing CommentKind = "CLOSING"
	CommentKindReopen  CommentKind = "REOPEN"
)

// Comment is a message in a ticket thread. Attachment fields hold metadata
// only; the service does not store file contents.
type Comment struct {
	ID       string
	TicketID string
	AuthorID string
	Kind     CommentKind
	Body     string

	AttachmentKey  *string
	AttachmentName *string
	AttachmentMime *string
	AttachmentSize *int64

	CreatedAt time.Time
}
