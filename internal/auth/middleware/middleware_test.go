package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-qpaper/internal/db"
	"github.com/mind-engage/mindengage-qpaper/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("k", time.Hour)
	tok, err := a.IssueJWT(Principal{UserID: "u1", Role: RoleExaminer, Name: "Ada"})
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.Sub)
	assert.Equal(t, RoleExaminer, c.Role)

	_, err = NewAuthService("other", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestJWTMiddlewarePlacesPrincipal(t *testing.T) {
	a := NewAuthService("k", time.Hour)
	var got Principal
	var role string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PrincipalFromContext(r.Context())
		role = rbac.RoleFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := a.IssueJWT(Principal{UserID: "u2", Role: RoleSubjectExpert})
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u2", got.UserID)
	assert.Equal(t, RoleSubjectExpert, role)
	assert.True(t, got.Authenticated())
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "u.db")+"?mode=rwc")
	require.NoError(t, err)
	defer dbh.Close()
	s := NewUserStore(dbh, 4)

	u, err := s.Register(ctx, "", " Ada@Example.edu ", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Name)
	assert.Equal(t, RoleSubjectExpert, u.Role)

	_, err = s.Register(ctx, "x", "ada@example.edu", "secret1", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = s.Register(ctx, "x", "b@example.edu", "123", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Register(ctx, "x", "c@example.edu", "secret1", RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	got, err := s.Authenticate(ctx, "ADA@example.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	_, err = s.Authenticate(ctx, "ada@example.edu", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.EnsureAdmin(ctx, "root@example.edu", "toor123"))
	admin, err := s.Authenticate(ctx, "root@example.edu", "toor123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, admin.Role)
}

func TestUniqueViolationIsEmailTaken(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "u.db")+"?mode=rwc")
	require.NoError(t, err)
	defer dbh.Close()

	insert := `INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES ($1,'n',$2,'h','examiner',0)`
	_, err = dbh.ExecContext(ctx, insert, "u1", "ada@example.edu")
	require.NoError(t, err)
	_, err = dbh.ExecContext(ctx, insert, "u2", "ada@example.edu")
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err), "sqlite: %v", err)

	_, err = dbh.ExecContext(ctx, `INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES ('u3','n',NULL,'h','examiner',0)`)
	require.Error(t, err)
	assert.False(t, isUniqueViolation(err), "not null is a different constraint")

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed")))
	assert.False(t, isUniqueViolation(nil))
}
