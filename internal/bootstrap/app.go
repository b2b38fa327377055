package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/documents"
	"resume-parser/internal/parses"
	"resume-parser/internal/queue"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/server"
	"resume-parser/internal/shared/storage/db"
	"resume-parser/internal/shared/storage/object"
	localstore "resume-parser/internal/shared/storage/object/local"
	s3store "resume-parser/internal/shared/storage/object/s3"
	"resume-parser/internal/shared/telemetry"
	"resume-parser/resume/parser"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	Receiver         queue.Receiver
	Parser           *parser.Parser
	DocumentsRepo    documents.DocumentsRepo
	ParsesRepo       parses.Repo
	DocumentsService *documents.Service
	ParsesService    *parses.Service
	ParseProcessor   parses.Processor
	DocumentsHandler *documents.Handler
	ParsesHandler    *parses.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.ParseMode) == "" {
		cfg.ParseMode = config.ParseModeSync
	}
	if cfg.Process == "" {
		cfg.Process = string(db.RuntimeServer)
	}
	if cfg.LogLevel != "" || cfg.LogFormat != "" {
		telemetry.Setup(cfg.LogLevel, cfg.LogFormat)
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p, err := buildParser(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Parser: p,
	}

	if err := buildQueue(ctx, app); err != nil {
		return nil, err
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DB:              app.DB,
		DocumentHandler: app.DocumentsHandler,
		ParseHandler:    app.ParsesHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.DetectRuntime(db.Runtime(cfg.Process)))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	// Deployed environments migrate through cmd/migrate.
	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildParser(cfg config.Config) (*parser.Parser, error) {
	parserCfg := parser.DefaultConfig()
	if path := strings.TrimSpace(cfg.ParserConfigPath); path != "" {
		loaded, err := parser.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load parser config: %w", err)
		}
		parserCfg = loaded
		telemetry.Info("bootstrap.parser_config", map[string]any{"path": path})
	}
	return parser.New(parserCfg)
}

// buildQueue connects SQS when a queue URL is configured. Queue mode without
// one is allowed: parse creation then fails with ErrJobQueueNotConfigured.
func buildQueue(ctx context.Context, app *App) error {
	if strings.TrimSpace(app.Config.ParseQueueURL) == "" {
		if app.Config.ParseMode == config.ParseModeQueue {
			telemetry.Warn("bootstrap.queue_missing", map[string]any{"parse_mode": app.Config.ParseMode})
		}
		return nil
	}
	client, err := queue.NewSQSClient(ctx, app.Config.ParseQueueURL, app.Config.AWSRegion)
	if err != nil {
		return err
	}
	app.Queue = client
	app.Receiver = client
	return nil
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var parseRepo parses.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		parseRepo = &parses.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		parseRepo = parses.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store:    app.Store,
		Repo:     docRepo,
		Provider: app.Config.ObjectStoreType,
	}
	parseSvc := &parses.Service{
		Repo:     parseRepo,
		Docs:     docSvc,
		Parser:   app.Parser,
		JobQueue: app.Queue,
		Mode:     app.Config.ParseMode,
	}

	app.DocumentsRepo = docRepo
	app.ParsesRepo = parseRepo
	app.DocumentsService = docSvc
	app.ParsesService = parseSvc
	app.ParseProcessor = parseSvc
	app.DocumentsHandler = documents.NewHandler(docSvc, app.Config.MaxUploadBytes)
	app.ParsesHandler = parses.NewHandler(parseSvc, app.Config.MaxUploadBytes)

	if app.DocumentsHandler == nil || app.ParsesHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
