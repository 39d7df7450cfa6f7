package question

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the id does not resolve to a question.
	ErrNotFound = errors.New("question not found")
	// ErrForbidden means the caller may not mutate the question.
	ErrForbidden = errors.New("not authorized to modify this question")
	// ErrEmptySearchTerm means the search endpoint was called without a term.
	ErrEmptySearchTerm = errors.New("search query is required")
)

// ValidationError reports per-field constraint violations.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	sort.Strings(msgs)
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
