// Package server initializes and runs the staffkeeper application: it opens
// the database, applies migrations, builds storage and services, and runs
// the HTTP API and the gRPC health endpoint until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffkeeper/internal/server/rest"
	"github.com/dmitrijs2005/staffkeeper/internal/server/services"
	"github.com/dmitrijs2005/staffkeeper/internal/server/storage"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/staffkeeper/internal/server/grpc"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	files          storage.FileStorage
	authService    *services.AuthService
	recordService  *services.RecordService
	chatbotService *services.ChatbotService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	fs, err := storage.New(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		files:          fs,
		authService:    services.NewAuthService(db, rm, logger, c),
		recordService:  services.NewRecordService(db, rm, fs, logger, c),
		chatbotService: services.NewChatbotService(logger, c),
	}, nil
}

// Handler builds the HTTP handler with every route and middleware.
func (app *App) Handler() *gin.Engine {
	h := rest.NewHandler(rest.HandlerOptions{
		Auth:         app.authService,
		Records:      app.recordService,
		Chatbot:      app.chatbotService,
		Files:        app.files,
		DB:           app.db,
		Logger:       app.logger,
		CookieSecure: app.config.CookieSecure,
		TokenTTL:     app.config.TokenValidityDuration,
	})
	return rest.NewRouter(h, app.config.AllowedOrigins)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.HTTPAddr, app.Handler(), app.logger, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a shutdown signal arrives or a server
// fails; the database is closed afterwards.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if strings.EqualFold(app.config.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
