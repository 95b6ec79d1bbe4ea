package comment

import (
	"errors"
	"strings"
	"time"
)

// MaxContentLength bounds free-text notes.
const MaxContentLength = 2000

// Domain errors
var (
	ErrEmptyStudentID = errors.New("comment must be associated with a student")
	ErrEmptyContent   = errors.New("comment content cannot be empty")
	ErrEmptyAuthor    = errors.New("comment must have an author")
	ErrContentTooLong = errors.New("comment content exceeds maximum length")
)

// Comment is an append-only staff annotation on a student. Comments are
// never edited or deleted through the API.
type Comment struct {
	ID        string
	StudentID string
	Content   string // markdown, rendered safely on display
	Author    string
	CreatedAt time.Time
}

// Validate checks if the Comment has valid data.
// PRE: Comment struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(c.Content) == "" {
		return ErrEmptyContent
	}
	if len(c.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if strings.TrimSpace(c.Author) == "" {
		return ErrEmptyAuthor
	}
	return nil
}
