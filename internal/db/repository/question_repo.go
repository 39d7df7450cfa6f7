package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crowdprep/interview-bank/internal/question"
)

// QuestionRepo is the Postgres-backed question store. All SQL lives here;
// the schema is managed by the goose migrations under db/migrations.
type QuestionRepo struct {
	pool *pgxpool.Pool
}

var _ question.Store = (*QuestionRepo)(nil)

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

const selectQuestion = `
SELECT q.id, q.question_text, q.company, q.topic, q.role, q.difficulty,
       q.submitted_by, q.upvotes, q.created_at, q.updated_at,
       COALESCE(array_agg(v.user_id ORDER BY v.user_id)
                FILTER (WHERE v.user_id IS NOT NULL), '{}') AS upvoted_by
FROM questions q
LEFT JOIN question_upvotes v ON v.question_id = q.id`

func (r *QuestionRepo) Insert(ctx context.Context, q question.Question) error {
	const query = `
	INSERT INTO questions (id, question_text, company, topic, role, difficulty,
	                       submitted_by, upvotes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		q.ID, q.QuestionText, q.Company, q.Topic, q.Role, q.Difficulty,
		textOrNil(q.SubmittedBy), q.Upvotes, q.CreatedAt, q.UpdatedAt,
	)
	return err
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (question.Question, error) {
	query := selectQuestion + `
	WHERE q.id = $1
	GROUP BY q.id;`

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Question{}, question.ErrNotFound
		}
		return question.Question{}, err
	}
	return q, nil
}

func (r *QuestionRepo) List(ctx context.Context, lq question.ListQuery) ([]question.Question, int, error) {
	where, args := buildFilter(lq.Filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM questions q` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	offset := (lq.Page - 1) * lq.Limit
	args = append(args, lq.Limit, offset)
	query := fmt.Sprintf(`%s%s
	GROUP BY q.id
	ORDER BY %s
	LIMIT $%d OFFSET $%d;`, selectQuestion, where, orderBy(lq.Sort), len(args)-1, len(args))

	items, err := r.queryQuestions(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *QuestionRepo) Update(ctx context.Context, id string, patch question.UpdateInput, now time.Time) (question.Question, error) {
	sets := []string{}
	args := []any{id}
	if patch.QuestionText != "" {
		args = append(args, patch.QuestionText)
		sets = append(sets, fmt.Sprintf("question_text = $%d", len(args)))
	}
	if patch.Topic != "" {
		args = append(args, patch.Topic)
		sets = append(sets, fmt.Sprintf("topic = $%d", len(args)))
	}
	if patch.Difficulty != "" {
		args = append(args, patch.Difficulty)
		sets = append(sets, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	args = append(args, now)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`UPDATE questions SET %s WHERE id = $1;`, strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return question.Question{}, err
	}
	if tag.RowsAffected() == 0 {
		return question.Question{}, question.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	// question_upvotes rows go with it via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return question.ErrNotFound
	}
	return nil
}

// ToggleUpvote flips the user's membership and the counter inside one
// transaction. The row lock serializes toggles on the same question while
// leaving other questions untouched; a failure mid-way rolls everything back.
func (r *QuestionRepo) ToggleUpvote(ctx context.Context, id, userID string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	err = tx.QueryRow(ctx, `SELECT upvotes FROM questions WHERE id = $1 FOR UPDATE;`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, question.ErrNotFound
		}
		return 0, err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM question_upvotes WHERE question_id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return 0, err
	}

	delta := 1
	if tag.RowsAffected() > 0 {
		delta = -1
	} else {
		if _, err := tx.Exec(ctx,
			`INSERT INTO question_upvotes (question_id, user_id) VALUES ($1, $2);`, id, userID); err != nil {
			return 0, err
		}
	}

	var count int
	err = tx.QueryRow(ctx,
		`UPDATE questions SET upvotes = upvotes + $2, updated_at = NOW() WHERE id = $1 RETURNING upvotes;`,
		id, delta).Scan(&count)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit toggle: %w", err)
	}
	return count, nil
}

func (r *QuestionRepo) Search(ctx context.Context, term string) ([]question.Question, error) {
	query := selectQuestion + `
	WHERE q.question_text ILIKE $1 OR q.company ILIKE $1 OR q.topic ILIKE $1
	GROUP BY q.id
	ORDER BY q.created_at DESC;`
	return r.queryQuestions(ctx, query, "%"+escapeLike(term)+"%")
}

func (r *QuestionRepo) DistinctValues(ctx context.Context) (question.Categories, error) {
	var cats question.Categories
	var err error
	if cats.Topics, err = r.distinct(ctx, `SELECT DISTINCT topic FROM questions;`); err != nil {
		return question.Categories{}, err
	}
	if cats.Companies, err = r.distinct(ctx, `SELECT DISTINCT company FROM questions;`); err != nil {
		return question.Categories{}, err
	}
	if cats.Roles, err = r.distinct(ctx, `SELECT DISTINCT role FROM questions;`); err != nil {
		return question.Categories{}, err
	}
	return cats, nil
}

func (r *QuestionRepo) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *QuestionRepo) queryQuestions(ctx context.Context, query string, args ...any) ([]question.Question, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []question.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	return items, rows.Err()
}

func buildFilter(f question.Filter) (string, []any) {
	clauses := []string{}
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Company != "" {
		add("q.company = $%d", f.Company)
	}
	if f.Topic != "" {
		add("q.topic = $%d", f.Topic)
	}
	if f.Role != "" {
		add("q.role = $%d", f.Role)
	}
	if f.Difficulty != "" {
		add("q.difficulty = $%d", f.Difficulty)
	}
	if !f.From.IsZero() {
		add("q.created_at >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("q.created_at <= $%d", f.To)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "\n\tWHERE " + strings.Join(clauses, " AND "), args
}

func orderBy(sort string) string {
	switch sort {
	case question.SortOldest:
		return "q.created_at ASC"
	case question.SortUpvotes:
		return "q.upvotes DESC, q.created_at DESC"
	default:
		return "q.created_at DESC"
	}
}

func scanQuestion(row pgx.Row) (question.Question, error) {
	var q question.Question
	var submittedBy pgtype.Text
	err := row.Scan(
		&q.ID,
		&q.QuestionText,
		&q.Company,
		&q.Topic,
		&q.Role,
		&q.Difficulty,
		&submittedBy,
		&q.Upvotes,
		&q.CreatedAt,
		&q.UpdatedAt,
		&q.UpvotedBy,
	)
	if err != nil {
		return question.Question{}, err
	}
	q.SubmittedBy = submittedBy.String
	return q, nil
}

func textOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
