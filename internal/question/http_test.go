package question_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdprep/interview-bank/internal/auth"
	"github.com/crowdprep/interview-bank/internal/config"
	"github.com/crowdprep/interview-bank/internal/question"
	"github.com/crowdprep/interview-bank/internal/server"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Page    *int            `json:"page"`
	Pages   *int            `json:"pages"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type apiFixture struct {
	handler http.Handler
	tokens  *auth.TokenManager
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	logger := zerolog.Nop()
	tokens := auth.NewTokenManager([]byte("test-secret"), "interview-bank-test")
	svc := question.NewService(question.NewMemoryStore(), nil, logger)
	handlers := question.NewHTTPHandlers(svc, logger)
	srv := server.NewHTTPServer(&config.App{HTTPAddr: "127.0.0.1:0"}, logger, nil, nil, tokens, handlers)
	return &apiFixture{handler: srv.Handler, tokens: tokens}
}

func (f *apiFixture) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (f *apiFixture) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := f.tokens.Issue(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) createQuestion(t *testing.T, token string) string {
	t.Helper()
	rec, env := f.do(t, http.MethodPost, "/v1/questions",
		`{"questionText":"Explain how hashing works","company":"Meta","topic":"DS","role":"SWE","difficulty":"Medium"}`,
		token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var q question.Question
	require.NoError(t, json.Unmarshal(env.Data, &q))
	return q.ID
}

func TestCreateQuestionEndpoint(t *testing.T) {
	api := newAPI(t)

	rec, env := api.do(t, http.MethodPost, "/v1/questions",
		`{"questionText":"Explain how hashing works","company":"Meta","topic":"DS","role":"SWE","difficulty":"Medium"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Question created successfully", env.Message)

	var q question.Question
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, 0, q.Upvotes)
	assert.Empty(t, q.SubmittedBy, "anonymous submission carries no owner")
}

func TestCreateQuestionRecordsSubmitter(t *testing.T) {
	api := newAPI(t)
	token := api.token(t, "user-1", question.RoleUser)

	_, env := api.do(t, http.MethodPost, "/v1/questions",
		`{"questionText":"Explain how hashing works","company":"Meta","topic":"DS","role":"SWE","difficulty":"Medium"}`, token)

	var q question.Question
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, "user-1", q.SubmittedBy)
}

func TestCreateQuestionValidationFailure(t *testing.T) {
	api := newAPI(t)

	rec, env := api.do(t, http.MethodPost, "/v1/questions", `{"questionText":"short"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Validation failed", env.Message)

	fields := map[string]string{}
	for _, fe := range env.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Contains(t, fields["questionText"], "at least 10 characters")
	assert.Contains(t, fields, "company")
	assert.Contains(t, fields, "difficulty")
}

func TestCreateQuestionRejectsBadJSON(t *testing.T) {
	api := newAPI(t)

	rec, env := api.do(t, http.MethodPost, "/v1/questions", `{"questionText":`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON payload", env.Message)
}

func TestGetQuestionNotFound(t *testing.T) {
	api := newAPI(t)

	rec, env := api.do(t, http.MethodGet, "/v1/questions/does-not-exist", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Question not found", env.Message)
}

func TestListQuestionsPaginationEnvelope(t *testing.T) {
	api := newAPI(t)
	for i := 0; i < 12; i++ {
		_, env := api.do(t, http.MethodPost, "/v1/questions",
			fmt.Sprintf(`{"questionText":"Question number %02d about systems","company":"Meta","topic":"DS","role":"SWE","difficulty":"Easy"}`, i), "")
		require.True(t, env.Success)
	}

	rec, env := api.do(t, http.MethodGet, "/v1/questions?limit=5&page=2", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	require.NotNil(t, env.Page)
	require.NotNil(t, env.Pages)
	assert.Equal(t, 12, *env.Count)
	assert.Equal(t, 2, *env.Page)
	assert.Equal(t, 3, *env.Pages)

	var items []question.Question
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 5)
}

func TestUpdateRequiresAuthentication(t *testing.T) {
	api := newAPI(t)
	id := api.createQuestion(t, api.token(t, "user-1", question.RoleUser))

	rec, env := api.do(t, http.MethodPut, "/v1/questions/"+id, `{"topic":"Algorithms"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", env.Message)
}

func TestUpdateForbiddenForStranger(t *testing.T) {
	api := newAPI(t)
	id := api.createQuestion(t, api.token(t, "user-1", question.RoleUser))

	rec, env := api.do(t, http.MethodPut, "/v1/questions/"+id, `{"topic":"Algorithms"}`,
		api.token(t, "user-2", question.RoleUser))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized", env.Message)
}

func TestUpdateAllowedForOwnerAndAdmin(t *testing.T) {
	api := newAPI(t)
	id := api.createQuestion(t, api.token(t, "user-1", question.RoleUser))

	rec, env := api.do(t, http.MethodPut, "/v1/questions/"+id, `{"topic":"Algorithms"}`,
		api.token(t, "user-1", question.RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)

	var q question.Question
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, "Algorithms", q.Topic)

	rec, _ = api.do(t, http.MethodPut, "/v1/questions/"+id, `{"difficulty":"Hard"}`,
		api.token(t, "admin-1", question.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	api := newAPI(t)
	owner := api.token(t, "user-1", question.RoleUser)
	id := api.createQuestion(t, owner)

	rec, env := api.do(t, http.MethodDelete, "/v1/questions/"+id, "", owner)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Question deleted successfully", env.Message)

	rec, _ = api.do(t, http.MethodGet, "/v1/questions/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpvoteToggleEndpoint(t *testing.T) {
	api := newAPI(t)
	id := api.createQuestion(t, "")
	voter := api.token(t, "user-7", question.RoleUser)

	rec, env := api.do(t, http.MethodPost, "/v1/questions/"+id+"/upvote", "", voter)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Upvote toggled", env.Message)

	var data map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data["upvotes"])

	_, env = api.do(t, http.MethodPost, "/v1/questions/"+id+"/upvote", "", voter)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 0, data["upvotes"], "second toggle undoes the first")
}

func TestUpvoteRequiresAuthentication(t *testing.T) {
	api := newAPI(t)
	id := api.createQuestion(t, "")

	rec, _ := api.do(t, http.MethodPost, "/v1/questions/"+id+"/upvote", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpvoteCountEndpoint(t *testing.T) {
	api := newAPI(t)
	id := api.createQuestion(t, "")
	_, _ = api.do(t, http.MethodPost, "/v1/questions/"+id+"/upvote", "", api.token(t, "user-7", question.RoleUser))

	rec, env := api.do(t, http.MethodGet, "/v1/questions/"+id+"/upvotes", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var data map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data["upvotes"])
}

func TestSearchEndpoint(t *testing.T) {
	api := newAPI(t)
	api.createQuestion(t, "")

	rec, env := api.do(t, http.MethodGet, "/v1/questions/search?q=hash", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []question.Question
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Explain how hashing works", items[0].QuestionText)
}

func TestSearchRequiresQuery(t *testing.T) {
	api := newAPI(t)

	rec, env := api.do(t, http.MethodGet, "/v1/questions/search", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query is required", env.Message)
}

func TestCategoriesEndpoint(t *testing.T) {
	api := newAPI(t)
	api.createQuestion(t, "")

	rec, env := api.do(t, http.MethodGet, "/v1/questions/categories", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var cats question.Categories
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	assert.Equal(t, []string{"DS"}, cats.Topics)
	assert.Equal(t, []string{"Meta"}, cats.Companies)
	assert.Equal(t, []string{"SWE"}, cats.Roles)
}

func TestInvalidBearerTokenRejected(t *testing.T) {
	api := newAPI(t)

	rec, env := api.do(t, http.MethodGet, "/v1/questions", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", env.Message)
}

func TestHealthz(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
