package question

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryRecord struct {
	mu     sync.Mutex
	q      Question
	voters map[string]struct{}
}

// MemoryStore is a map-backed Store used in development when Postgres is not
// configured, and as the store under test. Toggles lock the individual record,
// so questions stay independent of each other.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*memoryRecord)}
}

func (s *MemoryStore) Insert(_ context.Context, q Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[q.ID] = &memoryRecord{q: q, voters: make(map[string]struct{})}
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (Question, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Question{}, ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.snapshot(), nil
}

func (s *MemoryStore) List(_ context.Context, q ListQuery) ([]Question, int, error) {
	matched := s.collect(func(rec Question) bool { return q.Filter.matches(rec) })
	sortQuestions(matched, q.Sort)

	total := len(matched)
	skip := (q.Page - 1) * q.Limit
	if skip >= total {
		return []Question{}, total, nil
	}
	end := skip + q.Limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch UpdateInput, now time.Time) (Question, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Question{}, ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if patch.QuestionText != "" {
		rec.q.QuestionText = patch.QuestionText
	}
	if patch.Topic != "" {
		rec.q.Topic = patch.Topic
	}
	if patch.Difficulty != "" {
		rec.q.Difficulty = patch.Difficulty
	}
	rec.q.UpdatedAt = now
	return rec.snapshot(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// ToggleUpvote flips the caller's membership and adjusts the counter under the
// record lock, so the check and the mutation apply as one unit.
func (s *MemoryStore) ToggleUpvote(_ context.Context, id, userID string) (int, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return 0, ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if _, voted := rec.voters[userID]; voted {
		delete(rec.voters, userID)
		rec.q.Upvotes--
	} else {
		rec.voters[userID] = struct{}{}
		rec.q.Upvotes++
	}
	rec.q.UpdatedAt = time.Now().UTC()
	return rec.q.Upvotes, nil
}

func (s *MemoryStore) Search(_ context.Context, term string) ([]Question, error) {
	needle := strings.ToLower(term)
	matched := s.collect(func(q Question) bool {
		return strings.Contains(strings.ToLower(q.QuestionText), needle) ||
			strings.Contains(strings.ToLower(q.Company), needle) ||
			strings.Contains(strings.ToLower(q.Topic), needle)
	})
	sortQuestions(matched, SortLatest)
	return matched, nil
}

func (s *MemoryStore) DistinctValues(_ context.Context) (Categories, error) {
	topics := map[string]struct{}{}
	companies := map[string]struct{}{}
	roles := map[string]struct{}{}
	for _, q := range s.collect(func(Question) bool { return true }) {
		topics[q.Topic] = struct{}{}
		companies[q.Company] = struct{}{}
		roles[q.Role] = struct{}{}
	}
	return Categories{
		Topics:    sortedKeys(topics),
		Companies: sortedKeys(companies),
		Roles:     sortedKeys(roles),
	}, nil
}

func (s *MemoryStore) collect(keep func(Question) bool) []Question {
	s.mu.RLock()
	recs := make([]*memoryRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	out := make([]Question, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		q := rec.snapshot()
		rec.mu.Unlock()
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// snapshot copies the record so callers never alias store-internal state.
// Callers must hold rec.mu.
func (rec *memoryRecord) snapshot() Question {
	q := rec.q
	q.UpvotedBy = sortedKeys(rec.voters)
	return q
}

func (f Filter) matches(q Question) bool {
	if f.Company != "" && q.Company != f.Company {
		return false
	}
	if f.Topic != "" && q.Topic != f.Topic {
		return false
	}
	if f.Role != "" && q.Role != f.Role {
		return false
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if !f.From.IsZero() && q.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && q.CreatedAt.After(f.To) {
		return false
	}
	return true
}

func sortQuestions(qs []Question, order string) {
	sort.SliceStable(qs, func(i, j int) bool {
		switch order {
		case SortOldest:
			return qs[i].CreatedAt.Before(qs[j].CreatedAt)
		case SortUpvotes:
			return qs[i].Upvotes > qs[j].Upvotes
		default:
			return qs[i].CreatedAt.After(qs[j].CreatedAt)
		}
	})
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
