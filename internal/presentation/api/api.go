package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"community-chat/internal/infrastructure/configs"
	"community-chat/internal/infrastructure/identity"
	"community-chat/internal/infrastructure/logging"
	"community-chat/internal/infrastructure/metrics"
	"community-chat/internal/infrastructure/ratelimiter"
	auditHandler "community-chat/internal/presentation/handler/audit"
	healthHandler "community-chat/internal/presentation/handler/health"
	membersHandler "community-chat/internal/presentation/handler/members"
	messagesHandler "community-chat/internal/presentation/handler/messages"
	roomsHandler "community-chat/internal/presentation/handler/rooms"
	"community-chat/internal/presentation/handler/wshandler"
)

type Application struct {
	config          *configs.Config
	logger          logging.Logger
	limiter         *ratelimiter.FixedWindow
	provider        identity.Provider
	metrics         *metrics.Chat
	roomsHandler    *roomsHandler.Handler
	messagesHandler *messagesHandler.Handler
	membersHandler  *membersHandler.Handler
	auditHandler    *auditHandler.Handler
	healthHandler   *healthHandler.Handler
	wsHandler       *wshandler.Handler
}

func NewApplication(
	config *configs.Config,
	logger logging.Logger,
	limiter *ratelimiter.FixedWindow,
	provider identity.Provider,
	m *metrics.Chat,
	roomsH *roomsHandler.Handler,
	messagesH *messagesHandler.Handler,
	membersH *membersHandler.Handler,
	auditH *auditHandler.Handler,
	healthH *healthHandler.Handler,
	wsH *wshandler.Handler,
) *Application {
	return &Application{
		config:          config,
		logger:          logger,
		limiter:         limiter,
		provider:        provider,
		metrics:         m,
		roomsHandler:    roomsH,
		messagesHandler: messagesH,
		membersHandler:  membersH,
		auditHandler:    auditH,
		healthHandler:   healthH,
		wsHandler:       wsH,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.loggerMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		// The upgrade endpoint authenticates its own token and must not
		// sit behind the request timeout: sessions are long-lived.
		r.Get("/ws", app.wsHandler.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Use(app.rateLimiterMiddleware)

			r.Get("/health", app.healthHandler.GetHealth)

			r.Group(func(r chi.Router) {
				r.Use(app.authMiddleware)

				r.Route("/rooms", func(r chi.Router) {
					r.Post("/", app.roomsHandler.CreateRoomHandler)
					r.Get("/{roomId}", app.roomsHandler.GetRoomHandler)
					r.Delete("/{roomId}", app.roomsHandler.DeleteRoomHandler)

					r.Get("/{roomId}/messages", app.messagesHandler.ListMessagesHandler)
					r.Delete("/{roomId}/messages/{messageId}", app.messagesHandler.DeleteMessageHandler)

					r.Get("/{roomId}/members", app.membersHandler.ListMembersHandler)
					r.Put("/{roomId}/members/{userId}/role", app.membersHandler.ChangeRoleHandler)
					r.Delete("/{roomId}/members/{userId}", app.membersHandler.RemoveMemberHandler)
				})

				r.Get("/admin/audit", app.auditHandler.QueryHandler)
			})
		})
	})

	r.Get("/healthz", app.healthHandler.GetHealth)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return otelhttp.NewHandler(r, "community-chat")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
