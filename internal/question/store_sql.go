package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const insertQuestionSQL = `INSERT INTO questions
	(id,question_text,unit,co,bl,marks,subject,department,course,semester,created_by,created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertQuestion(ctx context.Context, db execer, q Question) error {
	_, err := db.ExecContext(ctx, insertQuestionSQL,
		q.ID, q.Text, q.Unit, q.CO, q.BL, q.Marks, q.Subject, q.Department,
		q.Course, q.Semester, q.CreatedBy, q.CreatedAt.UnixMilli())
	return err
}

func (s *SQLStore) Insert(ctx context.Context, q Question) (Question, error) {
	q = withID(q)
	if err := insertQuestion(ctx, s.db, q); err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

// InsertMany writes all rows in one transaction; rows reaching the store are
// already validated.
func (s *SQLStore) InsertMany(ctx context.Context, qs []Question) (out []Question, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	out = make([]Question, 0, len(qs))
	for _, q := range qs {
		q = withID(q)
		if err = insertQuestion(ctx, tx, q); err != nil {
			return nil, fmt.Errorf("insert question %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, nil
}

const selectQuestionSQL = `SELECT id,question_text,unit,co,bl,marks,subject,department,course,semester,created_by,created_at FROM questions`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (Question, error) {
	var q Question
	var created int64
	if err := row.Scan(&q.ID, &q.Text, &q.Unit, &q.CO, &q.BL, &q.Marks, &q.Subject,
		&q.Department, &q.Course, &q.Semester, &q.CreatedBy, &created); err != nil {
		return Question{}, err
	}
	q.CreatedAt = time.UnixMilli(created).UTC()
	return q, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, selectQuestionSQL+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	return q, err
}

func (s *SQLStore) List(ctx context.Context, c Criteria) ([]Question, error) {
	where, args := sqlWhere(c)
	rows, err := s.db.QueryContext(ctx, selectQuestionSQL+where+` ORDER BY created_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		// same predicate as the in-memory store
		if c.Matches(q) {
			out = append(out, q)
		}
	}
	return out, rows.Err()
}

func sqlWhere(c Criteria) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	like := func(col, v string) {
		v = strings.TrimSpace(v)
		// LOWER and LIKE fold ASCII only; List's Matches pass handles the rest.
		if v == "" || !isASCII(v) {
			return
		}
		conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, col, arg("%"+escapeLike(strings.ToLower(v))+"%")))
	}
	like("subject", c.Subject)
	like("department", c.Department)
	like("course", c.Course)
	if len(c.Units) > 0 {
		ph := make([]string, len(c.Units))
		for i, u := range c.Units {
			ph[i] = arg(u)
		}
		conds = append(conds, "unit IN ("+strings.Join(ph, ",")+")")
	}
	if len(c.COs) > 0 {
		ph := make([]string, len(c.COs))
		for i, co := range c.COs {
			ph[i] = arg(strings.TrimSpace(co))
		}
		conds = append(conds, "co IN ("+strings.Join(ph, ",")+")")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
