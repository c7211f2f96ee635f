package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"peopleops/internal/domain/attendance"
	"peopleops/internal/domain/directory"
	"peopleops/internal/domain/efiling"
	"peopleops/internal/domain/leave"
	"peopleops/internal/domain/rbac"
	"peopleops/internal/domain/remuneration"
	"peopleops/internal/platform/config"
	"peopleops/internal/platform/db"
	attendancehandler "peopleops/internal/transport/http/handlers/attendance"
	authhandler "peopleops/internal/transport/http/handlers/auth"
	directoryhandler "peopleops/internal/transport/http/handlers/directory"
	efilinghandler "peopleops/internal/transport/http/handlers/efiling"
	leavehandler "peopleops/internal/transport/http/handlers/leave"
	rbachandler "peopleops/internal/transport/http/handlers/rbac"
	remunerationhandler "peopleops/internal/transport/http/handlers/remuneration"
	"peopleops/internal/transport/http/middleware"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	blobs, err := efiling.NewBlobStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("blob store init failed: %v", err)
	}

	roleSvc := rbac.NewService(rbac.NewStore(pool))
	dirStore := directory.NewStore(pool)
	dirSvc := directory.NewService(dirStore, roleSvc, cfg.JWTSecret, cfg.TokenTTL, logger)
	attSvc := attendance.NewService(pool, cfg.LateCutoffHour, cfg.HalfDayThreshold, logger)
	leaveSvc := leave.NewService(leave.NewStore(pool), dirStore, attSvc, logger)
	remSvc := remuneration.NewService(pool, dirStore, roleSvc, attSvc, logger)
	efilingSvc := efiling.NewService(pool, blobs, cfg.MaxUploadBytes, cfg.DeleteWindow, logger)

	secureMW := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'; object-src 'none'",
		IsDevelopment:         cfg.Environment != "production",
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recover(logger))
	router.Use(secureMW.Handler)
	router.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.ValidateRole(roleSvc))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		// The e-filing send route carries multipart uploads, so the JSON body
		// cap applies everywhere else.
		r.Group(func(r chi.Router) {
			r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
			authhandler.NewHandler(dirSvc).RegisterRoutes(r)
			directoryhandler.NewHandler(dirSvc).RegisterRoutes(r)
			rbachandler.NewHandler(roleSvc).RegisterRoutes(r)
			attendancehandler.NewHandler(attSvc, roleSvc).RegisterRoutes(r)
			leavehandler.NewHandler(leaveSvc, roleSvc).RegisterRoutes(r)
			remunerationhandler.NewHandler(remSvc, roleSvc).RegisterRoutes(r)
		})
		efilinghandler.NewHandler(efilingSvc, cfg.MaxUploadBytes).RegisterRoutes(r)
	})

	logger.Info("server listening", slog.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
