package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/rulekit/internal/bookstore"
	"github.com/dmitrymomot/rulekit/pkg/config"
	"github.com/dmitrymomot/rulekit/pkg/httpserver"
	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/mongo"
	"github.com/dmitrymomot/rulekit/pkg/opensearch"
	"github.com/dmitrymomot/rulekit/pkg/pg"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

type appConfig struct {
	Storage     string `env:"BOOKSTORE_STORAGE" envDefault:"memory"`
	RulesFile   string `env:"BOOKSTORE_RULES_FILE"`
	MongoDB     string `env:"BOOKSTORE_MONGO_DB" envDefault:"bookstore"`
	SearchIndex string `env:"BOOKSTORE_SEARCH_INDEX" envDefault:"books"`
}

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)

	log := logger.New(append(logger.FromConfig(logCfg),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("bookstore stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		app     appConfig
		httpCfg httpserver.Config
	)
	if err := config.Load(&app); err != nil {
		return err
	}
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	repo, checks, closeRepo, err := openRepository(ctx, app, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	opts := []bookstore.ServiceOption{bookstore.WithLogger(log)}
	if app.RulesFile != "" {
		m, err := loadManifest(app.RulesFile)
		if err != nil {
			return err
		}
		opts = append(opts, bookstore.WithManifest(m))
	}
	svc, err := bookstore.NewService(repo, opts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/ready", httpserver.HealthCheckHandler(log, checks...))
	r.Mount("/books", bookstore.NewHandler(svc, log).Routes())

	log.InfoContext(ctx, "starting bookstore", slog.String("storage", app.Storage), slog.String("addr", httpCfg.Addr))
	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

func openRepository(ctx context.Context, app appConfig, log *slog.Logger) (bookstore.Repository, []func(context.Context) error, func(), error) {
	switch app.Storage {
	case "memory":
		return bookstore.NewMemoryRepository(), nil, func() {}, nil

	case "postgres":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, nil, err
		}
		pool, err := pg.Connect(ctx, cfg, log)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, bookstore.Migrations, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		checks := []func(context.Context) error{pg.Healthcheck(pool)}
		return bookstore.NewPostgresRepository(pool), checks, pool.Close, nil

	case "mongo":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, cfg, app.MongoDB, log)
		if err != nil {
			return nil, nil, nil, err
		}
		client := db.Client()
		disconnect := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error("mongodb disconnect failed", logger.Error(err))
			}
		}
		checks := []func(context.Context) error{mongo.Healthcheck(client)}
		return bookstore.NewMongoRepository(db), checks, disconnect, nil

	case "opensearch":
		var cfg opensearch.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, nil, err
		}
		client, err := opensearch.New(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		checks := []func(context.Context) error{opensearch.Healthcheck(client)}
		return bookstore.NewSearchRepository(client, app.SearchIndex), checks, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown BOOKSTORE_STORAGE %q", app.Storage)
	}
}

func loadManifest(path string) (*validator.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(errors.New("open rules file"), err)
	}
	defer f.Close()
	return validator.LoadManifest(f)
}
