// internal/routes/routes.go
package routes

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qbank/internal/auth"
	"qbank/internal/config"
	"qbank/internal/handlers"
	"qbank/internal/interfaces"
	"qbank/internal/middleware"
	"qbank/internal/repository"
	"qbank/internal/repository/memory"
	"qbank/internal/services"
)

// Repositories is the storage backing one server instance.
type Repositories struct {
	Users          interfaces.UserRepository
	PasswordResets interfaces.PasswordResetRepository
	Subjects       interfaces.SubjectRepository
	Topics         interfaces.TopicRepository
	Questions      interfaces.QuestionRepository
}

func PostgresRepositories(conn *sql.DB) Repositories {
	return Repositories{
		Users:          repository.NewUserRepository(conn),
		PasswordResets: repository.NewPasswordResetRepository(conn),
		Subjects:       repository.NewSubjectRepository(conn),
		Topics:         repository.NewTopicRepository(conn),
		Questions:      repository.NewQuestionRepository(conn),
	}
}

func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Users:          store.Users(),
		PasswordResets: store.PasswordResets(),
		Subjects:       store.Subjects(),
		Topics:         store.Topics(),
		Questions:      store.Questions(),
	}
}

type Dependencies struct {
	// DB is only used by the health check and may be nil.
	DB       *sql.DB
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Repos    Repositories
	Mailer   services.EmailSender
	// Passwords defaults to bcrypt.
	Passwords auth.PasswordHasher
}

// Services groups the use cases the handlers are built from.
type Services struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Passwords *services.PasswordResetService
	Subjects  *services.SubjectService
	Topics    *services.TopicService
	Questions *services.QuestionService
}

func NewServices(deps Dependencies) *Services {
	cfg := deps.Config
	hasher := deps.Passwords
	if hasher == nil {
		hasher = auth.NewBcryptHasher()
	}
	repos := deps.Repos

	return &Services{
		Auth:  services.NewAuthService(repos.Users, hasher, auth.NewJWTGenerator(cfg.JWTSecret, cfg.JWTExpiresIn)),
		Users: services.NewUserService(repos.Users, hasher),
		Passwords: services.NewPasswordResetService(
			repos.Users, repos.PasswordResets, auth.NewSHA256TokenHasher(), hasher, deps.Mailer,
			services.PasswordResetConfig{
				FrontendURL: cfg.FrontendURL,
				TTL:         cfg.ResetTokenTTL,
				Logger:      deps.Logger,
			},
		),
		Subjects:  services.NewSubjectService(repos.Subjects),
		Topics:    services.NewTopicService(repos.Topics, repos.Subjects),
		Questions: services.NewQuestionService(repos.Questions, repos.Subjects, repos.Topics),
	}
}

func SetupRoutes(deps Dependencies) *chi.Mux {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	svc := NewServices(deps)
	metrics := middleware.NewMetrics(deps.Registry)

	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	health := handlers.NewHealthHandler(deps.DB)
	r.Get("/health", health.Health)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	RegisterSwaggerRoutes(r)

	requireAuth := middleware.JWTAuth(svc.Auth)

	r.Route("/api", func(r chi.Router) {
		RegisterAuthRoutes(r, svc.Auth, requireAuth)
		RegisterUserRoutes(r, svc.Users, requireAuth)
		RegisterPasswordRoutes(r, svc.Passwords)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			RegisterSubjectRoutes(r, svc.Subjects)
			RegisterTopicRoutes(r, svc.Topics)
			RegisterQuestionRoutes(r, svc.Questions)
		})
	})

	return r
}
