package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/blog"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/contacts"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/health"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/notifications"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/users"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheStore := openCache(ctx, cfg, logger)

	tokens := &auth.Manager{
		Secret:    []byte(cfg.JWTSecret),
		AccessTTL: cfg.JWTExpire(),
		Issuer:    "portfolio-backend",
	}
	val := validation.New()

	var notifier contacts.Notifier
	if mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.OwnerEmail, cfg.BrevoSandbox); mailer != nil {
		notifier = mailer
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	} else {
		logger.Info("brevo mailer disabled")
	}

	usersService := users.NewService(users.NewRepository(cols.Users), tokens, val, cfg.Timezone)
	usersHandler := users.NewHandler(usersService, logger)

	projectsService := projects.NewService(projects.NewRepository(cols.Projects), cacheStore, cfg.CacheTTL(), val, logger, cfg.Timezone)
	projectsHandler := projects.NewHandler(projectsService, logger)

	blogService := blog.NewService(blog.NewRepository(cols.BlogPosts), usersService, cacheStore, cfg.CacheTTL(), val, logger, cfg.Timezone)
	blogHandler := blog.NewHandler(blogService, logger)

	contactsService := contacts.NewService(contacts.NewRepository(cols.Contacts), val, cfg.Timezone, notifier)
	contactsHandler := contacts.NewHandler(contactsService, logger)

	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow(), false)
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, cfg.RateLimitWindow(), true)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin, cfg.RateLimitWindow(), true)

	adminOnly := func(r chi.Router) {
		r.Use(middleware.RequireAuth(usersService))
		r.Use(middleware.RequireRole(auth.RoleAdmin))
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		api.Get("/health", health.Handler(nil))

		api.Route("/auth", func(a chi.Router) {
			a.With(loginLimiter.Middleware).Post("/login", usersHandler.Login)
			a.With(middleware.RequireAuth(usersService)).Get("/me", usersHandler.Me)
		})

		api.Route("/projects", func(p chi.Router) {
			p.Get("/", projectsHandler.List)
			p.Get("/{id}", projectsHandler.Get)
			p.Group(func(admin chi.Router) {
				adminOnly(admin)
				admin.Post("/", projectsHandler.AdminCreate)
				admin.Put("/{id}", projectsHandler.AdminUpdate)
				admin.Delete("/{id}", projectsHandler.AdminDelete)
			})
		})

		// Static /all wins over /{slug}.
		api.Route("/blog", func(b chi.Router) {
			b.Get("/", blogHandler.PublicList)
			b.Group(func(admin chi.Router) {
				adminOnly(admin)
				admin.Get("/all", blogHandler.AdminList)
				admin.Post("/", blogHandler.AdminCreate)
				admin.Put("/{id}", blogHandler.AdminUpdate)
				admin.Delete("/{id}", blogHandler.AdminDelete)
			})
			b.Get("/{slug}", blogHandler.PublicGetBySlug)
		})

		api.Route("/contact", func(c chi.Router) {
			c.With(contactLimiter.Middleware).Post("/", contactsHandler.Create)
			c.Group(func(admin chi.Router) {
				adminOnly(admin)
				admin.Get("/", contactsHandler.AdminList)
				admin.Get("/{id}", contactsHandler.AdminGet)
				admin.Put("/{id}", contactsHandler.AdminUpdateStatus)
				admin.Delete("/{id}", contactsHandler.AdminDelete)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	if closer, ok := cacheStore.(*cache.RedisCache); ok {
		_ = closer.Close()
	}
}

// openCache connects to Redis when configured and falls back to a no-op cache.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		logger.Info("cache disabled")
		return cache.NewNoop()
	}

	var redisCache *cache.RedisCache
	var err error
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
	} else {
		redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	if err != nil {
		logger.Error("redis connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := redisCache.Ping(ctx); err != nil {
		logger.Error("redis connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("redis connected")
	return redisCache
}
