package question

import (
	"context"
	"time"
)

// Difficulty values accepted for a question. Anything else is rejected before
// it reaches the store.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// ValidDifficulty reports whether d is one of the three accepted levels.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Question is a crowd-sourced interview question. SubmittedBy is an opaque
// reference to the identity service and may be empty (anonymous submission)
// or point at a since-deleted account.
type Question struct {
	ID           string    `json:"id"`
	QuestionText string    `json:"questionText"`
	Company      string    `json:"company"`
	Topic        string    `json:"topic"`
	Role         string    `json:"role"`
	Difficulty   string    `json:"difficulty"`
	SubmittedBy  string    `json:"submittedBy,omitempty"`
	Upvotes      int       `json:"upvotes"`
	UpvotedBy    []string  `json:"upvotedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted at submission time.
type CreateInput struct {
	QuestionText string
	Company      string
	Topic        string
	Role         string
	Difficulty   string
	SubmittedBy  string
}

// UpdateInput is a partial patch. Empty fields are left unchanged. Company and
// role are immutable after creation, so they do not appear here.
type UpdateInput struct {
	QuestionText string
	Topic        string
	Difficulty   string
}

// Sort options for listing.
const (
	SortLatest  = "latest"
	SortOldest  = "oldest"
	SortUpvotes = "upvotes"
)

// Filter narrows a listing. All supplied fields must match (conjunction);
// string fields match exactly, the date bounds are inclusive and optional.
type Filter struct {
	Company    string
	Topic      string
	Role       string
	Difficulty string
	From       time.Time
	To         time.Time
}

// ListQuery is the fully-typed request the query builder hands to the store.
type ListQuery struct {
	Filter Filter
	Sort   string
	Page   int
	Limit  int
}

// Categories holds the distinct tag values currently present in the bank.
type Categories struct {
	Topics    []string `json:"topics"`
	Companies []string `json:"companies"`
	Roles     []string `json:"roles"`
}

// Store is the persistence contract for questions. Implementations must keep
// the upvote counter equal to the member count even under concurrent toggles,
// and must serialize toggles per question record only.
type Store interface {
	Insert(ctx context.Context, q Question) error
	GetByID(ctx context.Context, id string) (Question, error)
	List(ctx context.Context, q ListQuery) ([]Question, int, error)
	Update(ctx context.Context, id string, patch UpdateInput, now time.Time) (Question, error)
	Delete(ctx context.Context, id string) error
	ToggleUpvote(ctx context.Context, id, userID string) (int, error)
	Search(ctx context.Context, term string) ([]Question, error)
	DistinctValues(ctx context.Context) (Categories, error)
}

// CategoryCache fronts DistinctValues so the full-collection scan can later be
// replaced by a materialized index without touching callers.
type CategoryCache interface {
	Get(ctx context.Context) (*Categories, error)
	Set(ctx context.Context, c Categories) error
	Invalidate(ctx context.Context) error
}
