package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otp-auth-api/internal/application/login"
	"github.com/otp-auth-api/internal/application/profile"
	"github.com/otp-auth-api/internal/application/signup"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
	s3infra "github.com/otp-auth-api/internal/infrastructure/s3"
	"github.com/otp-auth-api/internal/infrastructure/smtp"
	"github.com/otp-auth-api/internal/infrastructure/sns"
	"github.com/otp-auth-api/internal/transport/http/handler"
	appmiddleware "github.com/otp-auth-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	SignupRepo  *dynamo.SignupRepo
	S3Store     *s3infra.Store
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the OTP endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	signupSvc := signup.NewService(signup.ServiceDeps{
		UserRepo:   deps.UserRepo,
		SignupRepo: deps.SignupRepo,
		Mailer:     deps.Mailer,
		SMSSender:  deps.SMSSender,
		JWTSigner:  deps.JWTProvider,
	})
	loginSvc := login.NewService(login.ServiceDeps{
		UserRepo:  deps.UserRepo,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
		JWTSigner: deps.JWTProvider,
	})
	profileSvc := profile.NewService(profile.ServiceDeps{
		UserRepo:    deps.UserRepo,
		ObjectStore: deps.S3Store,
	})

	healthH := handler.NewHealth()
	signupH := handler.NewSignup(signupSvc)
	loginH := handler.NewLogin(loginSvc)
	profileH := handler.NewProfile(profileSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/userSignup", signupH.Initiate)
		r.With(sensitiveRL.Limit).Post("/verifyUserSignup", signupH.Verify)
		r.With(sensitiveRL.Limit).Post("/userLogin", loginH.Initiate)
		r.With(sensitiveRL.Limit).Post("/verifyUserLogin", loginH.Verify)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider, deps.UserRepo))

			r.Get("/user", profileH.Get)
			r.Put("/updateUser", profileH.Update)
			r.Post("/uploadUserImage", profileH.UploadImage)
		})
	})

	return r
}
