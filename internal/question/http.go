package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/rs/zerolog"

	"github.com/crowdprep/interview-bank/internal/auth"
	"github.com/crowdprep/interview-bank/pkg/http/respond"
)

// HTTPHandlers exposes the question bank over REST.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

type createRequest struct {
	QuestionText string `json:"questionText"`
	Company      string `json:"company"`
	Topic        string `json:"topic"`
	Role         string `json:"role"`
	Difficulty   string `json:"difficulty"`
}

type updateRequest struct {
	QuestionText string `json:"questionText"`
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
}

// Create handles POST /v1/questions. Authentication is optional; anonymous
// submissions simply carry no owner.
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	in := CreateInput{
		QuestionText: req.QuestionText,
		Company:      req.Company,
		Topic:        req.Topic,
		Role:         req.Role,
		Difficulty:   req.Difficulty,
	}
	if caller, ok := auth.CallerFromContext(r.Context()); ok {
		in.SubmittedBy = caller.ID
	}

	q, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.Created(w, "Question created successfully", q)
}

// List handles GET /v1/questions with filter/sort/pagination parameters.
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := ParseListQuery(r.URL.Query())
	items, total, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.Page(w, items, total, q.Page, Pages(total, q.Limit))
}

// Get handles GET /v1/questions/{id}.
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.OK(w, q)
}

// Update handles PUT /v1/questions/{id}. Requires authentication.
func (h *HTTPHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	q, err := h.svc.Update(r.Context(), h.caller(r), r.PathValue("id"), UpdateInput{
		QuestionText: req.QuestionText,
		Topic:        req.Topic,
		Difficulty:   req.Difficulty,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.OK(w, q)
}

// Delete handles DELETE /v1/questions/{id}. Requires authentication.
func (h *HTTPHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), h.caller(r), r.PathValue("id")); err != nil {
		h.respondError(w, err)
		return
	}
	respond.OKMessage(w, "Question deleted successfully", nil)
}

// Upvote handles POST /v1/questions/{id}/upvote. Requires authentication.
func (h *HTTPHandlers) Upvote(w http.ResponseWriter, r *http.Request) {
	caller := h.caller(r)
	count, err := h.svc.ToggleUpvote(r.Context(), r.PathValue("id"), caller.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.OKMessage(w, "Upvote toggled", map[string]int{"upvotes": count})
}

// Upvotes handles GET /v1/questions/{id}/upvotes.
func (h *HTTPHandlers) Upvotes(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.UpvoteCount(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.OK(w, map[string]int{"upvotes": count})
}

// Search handles GET /v1/questions/search?q=term.
func (h *HTTPHandlers) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.OK(w, items)
}

// Categories handles GET /v1/questions/categories.
func (h *HTTPHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respond.OK(w, cats)
}

func (h *HTTPHandlers) caller(r *http.Request) Caller {
	c, _ := auth.CallerFromContext(r.Context())
	return Caller{ID: c.ID, Role: c.Role}
}

// respondError maps the typed failure taxonomy onto stable status codes.
// Anything unclassified is an internal error and stays opaque to the caller.
func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.ValidationFailed(w, fieldErrors(verr))
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Question not found")
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, ErrEmptySearchTerm):
		respond.Error(w, http.StatusBadRequest, "Search query is required")
	default:
		h.logger.Error().Err(err).Msg("question operation failed")
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func fieldErrors(verr *ValidationError) []respond.FieldError {
	out := make([]respond.FieldError, 0, len(verr.Fields))
	for field, msg := range verr.Fields {
		out = append(out, respond.FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
