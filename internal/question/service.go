package question

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service implements the question bank operations on top of a Store. All
// methods are request-scoped; failures come back as the typed errors in
// errors.go and are never retried here.
type Service struct {
	store  Store
	cache  CategoryCache
	logger zerolog.Logger
}

// NewService wires the store and an optional category cache.
func NewService(store Store, cache CategoryCache, logger zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// Create validates the submission and persists it with a fresh id, zeroed
// counter, and creation timestamps.
func (s *Service) Create(ctx context.Context, in CreateInput) (Question, error) {
	in, err := validateCreate(in)
	if err != nil {
		return Question{}, err
	}

	now := time.Now().UTC()
	q := Question{
		ID:           uuid.NewString(),
		QuestionText: in.QuestionText,
		Company:      in.Company,
		Topic:        in.Topic,
		Role:         in.Role,
		Difficulty:   in.Difficulty,
		SubmittedBy:  in.SubmittedBy,
		UpvotedBy:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, q); err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	s.invalidateCategories(ctx)
	return q, nil
}

// Get fetches a single question by id.
func (s *Service) Get(ctx context.Context, id string) (Question, error) {
	return s.store.GetByID(ctx, id)
}

// List returns one page of questions plus the total match count independent
// of paging.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Question, int, error) {
	return s.store.List(ctx, q)
}

// Update applies a partial patch after re-validating the present fields and
// checking that the caller owns the question or is an admin.
func (s *Service) Update(ctx context.Context, caller Caller, id string, patch UpdateInput) (Question, error) {
	patch, err := validateUpdate(patch)
	if err != nil {
		return Question{}, err
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Question{}, err
	}
	if !caller.CanMutate(current) {
		return Question{}, ErrForbidden
	}

	updated, err := s.store.Update(ctx, id, patch, time.Now().UTC())
	if err != nil {
		return Question{}, err
	}
	s.invalidateCategories(ctx)
	return updated, nil
}

// Delete removes the question permanently, dropping its upvote history.
func (s *Service) Delete(ctx context.Context, caller Caller, id string) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanMutate(current) {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCategories(ctx)
	return nil
}

// ToggleUpvote flips the user's vote and returns the post-toggle count. The
// store executes the membership check and the counter change atomically.
func (s *Service) ToggleUpvote(ctx context.Context, id, userID string) (int, error) {
	return s.store.ToggleUpvote(ctx, id, userID)
}

// UpvoteCount returns the current counter for a question.
func (s *Service) UpvoteCount(ctx context.Context, id string) (int, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return q.Upvotes, nil
}

// Search matches the term case-insensitively as a substring of question text,
// company, or topic, newest first.
func (s *Service) Search(ctx context.Context, term string) ([]Question, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}
	return s.store.Search(ctx, term)
}

// Categories enumerates the distinct topics, companies, and roles, reading
// through the cache when one is configured.
func (s *Service) Categories(ctx context.Context) (Categories, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return *cached, nil
		}
	}
	cats, err := s.store.DistinctValues(ctx)
	if err != nil {
		return Categories{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cats); err != nil {
			s.logger.Warn().Err(err).Msg("category cache set failed")
		}
	}
	return cats, nil
}

func (s *Service) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("category cache invalidation failed")
	}
}
