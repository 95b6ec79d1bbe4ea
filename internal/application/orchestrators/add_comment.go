package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fjorlistinn/internal/domain/comment"
)

// CommentStore defines the store interface for staff comments.
type CommentStore interface {
	Insert(ctx context.Context, c comment.Comment) error
}

// AddCommentInput carries input for the comment orchestrator.
type AddCommentInput struct {
	StudentID string
	Content   string // markdown
	Author    string
}

// AddCommentDeps holds dependencies for AddComment.
type AddCommentDeps struct {
	StudentStore CheckInStudentStore
	CommentStore CommentStore
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteAddComment appends a staff annotation to a student. Comments are
// append-only; there is no edit or delete path.
// PRE: StudentID names an existing student; Content is non-empty
// POST: One comment row appended
func ExecuteAddComment(ctx context.Context, input AddCommentInput, deps AddCommentDeps) error {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	generateID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		generateID = deps.GenerateID
	}

	if _, err := deps.StudentStore.GetByID(ctx, input.StudentID); err != nil {
		return ErrStudentNotFound
	}

	c := comment.Comment{
		ID:        generateID(),
		StudentID: input.StudentID,
		Content:   input.Content,
		Author:    input.Author,
		CreatedAt: now(),
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := deps.CommentStore.Insert(ctx, c); err != nil {
		return err
	}

	slog.Info("comment_event", "event", "comment_added", "student_id", input.StudentID, "author", input.Author)
	return nil
}
