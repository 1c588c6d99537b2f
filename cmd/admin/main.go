// Command admin is the operator tool for staffkeeper.
//
//	admin create-admin -name "Root" -email root@example.com [-d DSN] [-c config.json]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/staffkeeper/internal/admin"
	"github.com/dmitrijs2005/staffkeeper/internal/logging"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffkeeper/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return admin.ErrUsage
	}

	cfg := config.LoadConfigFromArgs(args[1:])
	logger := logging.NewJSONLogger(os.Stderr, slog.LevelWarn)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	svc := services.NewAuthService(db, rm, logger, cfg)
	app := admin.NewApp(os.Stdin, int(os.Stdin.Fd()), os.Stdout, svc)

	return app.Run(ctx, args)
}
