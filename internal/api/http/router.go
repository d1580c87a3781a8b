package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/export"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
	"github.com/mind-engage/mindengage-qpaper/internal/rbac"
)

type Deps struct {
	Auth      *auth.AuthService
	Users     *auth.UserStore
	Questions *question.Service
	Papers    *paper.Service
	Exporter  *Exporter
	Metrics   http.Handler // nil hides /metrics
	Log       *zap.Logger

	CORSOrigins        []string
	RequestTimeout     time.Duration
	EnableRegistration bool
}

func NewRouter(d Deps) chi.Router {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Exporter != nil && d.Exporter.Log == nil {
		d.Exporter.Log = d.Log
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "X-Archive-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/auth", func(ar chi.Router) {
		if d.EnableRegistration {
			ar.Post("/register", RegisterHandler(d.Users, d.Auth, d.Log))
		}
		ar.Post("/login", LoginHandler(d.Users, d.Auth, d.Log))
		ar.With(auth.JWTMiddleware(d.Auth)).Get("/me", MeHandler())
	})

	// Protected API (JWT → principal and role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.Route("/api/questions", func(qr chi.Router) {
			qr.With(rbac.Require(rbac.PermQuestionCreate)).Post("/", CreateQuestionHandler(d.Questions, d.Log))
			qr.With(rbac.RequireAll(rbac.PermQuestionCreate, rbac.PermQuestionList)).Post("/bulk", BulkCreateQuestionsHandler(d.Questions, d.Log))
			qr.With(rbac.Require(rbac.PermQuestionList)).Get("/", ListQuestionsHandler(d.Questions, d.Log))
		})

		pr.Route("/api/paper", func(pp chi.Router) {
			pp.With(rbac.Require(rbac.PermPaperGenerate)).Post("/generate", GeneratePaperHandler(d.Papers, d.Log))
			pp.With(rbac.RequireAny(rbac.PermPaperGenerate, rbac.PermQuestionList)).Get("/combinations", CombinationsHandler(d.Papers, d.Log))
			pp.With(rbac.Require(rbac.PermPaperGenerate)).Post("/suggest", SuggestHandler(d.Papers, d.Log))

			if d.Exporter != nil {
				pp.With(rbac.Require(rbac.PermPaperExport)).Post("/download-word", d.Exporter.DownloadHandler(export.FormatWord))
				pp.With(rbac.Require(rbac.PermPaperExport)).Post("/download-pdf", d.Exporter.DownloadHandler(export.FormatPDF))
				pp.With(rbac.Require(rbac.PermPaperExport)).Post("/download-json", d.Exporter.DownloadHandler(export.FormatJSON))
			}
		})

		if d.Exporter != nil && d.Exporter.Blobs != nil {
			pr.With(rbac.Require(rbac.PermPaperExport)).Route("/api/exports", d.Exporter.MountArchive)
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	return r
}
