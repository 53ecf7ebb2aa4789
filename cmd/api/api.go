package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campsite/docs" //this is required to generate swagger docs
	"campsite/internal/auth"
	"campsite/internal/domain/moderation"
	"campsite/internal/domain/reviews"
	"campsite/internal/domain/storage"
	"campsite/internal/domain/votes"
	"campsite/internal/mailer"
	"campsite/internal/notifications"
	"campsite/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	reviews       *reviews.Service
	votes         *votes.Service
	moderation    *moderation.Service
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	push          notifications.PushSender
	authenticator auth.Authenticator
	rateLimiter   *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret        string
	refreshSecret string
	iss           string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Signals through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/campsites", func(r chi.Router) {
			// Public read paths; voted_helpful annotation only appears on
			// authenticated requests.
			r.Get("/{campsiteID}/reviews", app.getCampsiteReviewsHandler)
			r.Get("/{campsiteID}/reviews/summary", app.getReviewSummaryHandler)
			r.Get("/{campsiteID}/reviews/recent", app.getRecentReviewsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createCampsiteHandler)
				r.Post("/{campsiteID}/reviews", app.createReviewHandler)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/photos", app.uploadReviewPhotosHandler)
			r.Post("/{reviewID}/helpful", app.toggleHelpfulHandler)
			r.Post("/{reviewID}/report", app.reportReviewHandler)
			r.Post("/{reviewID}/response", app.addOwnerResponseHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireAdmin)
			r.Get("/reviews/reported", app.getReportedReviewsHandler)
			r.Post("/reviews/{reviewID}/hide", app.hideReviewHandler)
			r.Post("/reviews/{reviewID}/unhide", app.unhideReviewHandler)
			r.Post("/reviews/{reviewID}/dismiss", app.dismissReportsHandler)
			r.Get("/campsites", app.listCampsitesHandler)
			r.Post("/campsites/{campsiteID}/approve", app.approveCampsiteHandler)
			r.Post("/campsites/{campsiteID}/reject", app.rejectCampsiteHandler)
			r.Get("/moderation-logs", app.getModerationLogsHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/push-token", app.registerPushTokenHandler)
			r.Delete("/push-token", app.removePushTokenHandler)
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
