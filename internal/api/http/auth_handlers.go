package http

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

func RegisterHandler(users *auth.UserStore, authSvc *auth.AuthService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		if !decode(w, r, &c) {
			return
		}
		u, err := users.Register(r.Context(), c.Name, c.Email, c.Password, strings.TrimSpace(c.Role))
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			badRequest(w, "User already exists")
			return
		case errors.Is(err, auth.ErrRoleNotAllowed):
			writeJSON(w, http.StatusForbidden, errorBody{Message: err.Error()})
			return
		case errors.Is(err, auth.ErrInvalidInput):
			badRequest(w, err.Error())
			return
		case err != nil:
			fail(w, log, "register", err)
			return
		}
		tok, err := authSvc.IssueJWT(u.Principal())
		if err != nil {
			fail(w, log, "issue token", err)
			return
		}
		log.Info("user registered", zap.String("id", u.ID), zap.String("role", u.Role))
		writeJSON(w, http.StatusCreated, tokenResponse{Token: tok, User: u})
	}
}

func LoginHandler(users *auth.UserStore, authSvc *auth.AuthService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		if !decode(w, r, &c) {
			return
		}
		u, err := users.Authenticate(r.Context(), c.Email, c.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Invalid credentials"})
			return
		}
		if err != nil {
			fail(w, log, "login", err)
			return
		}
		tok, err := authSvc.IssueJWT(u.Principal())
		if err != nil {
			fail(w, log, "issue token", err)
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{Token: tok, User: u})
	}
}

// MeHandler echoes the principal carried by the bearer token.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, auth.PrincipalFromContext(r.Context()))
	}
}
