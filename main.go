// @title           Question Board API
// @version         1.0
// @description     Board-scoped questions with voting and fuzzy search.
// @BasePath        /
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questionboard/internal/app"
	"questionboard/internal/app/question"
	"questionboard/internal/config"
	"questionboard/internal/db"
	"questionboard/internal/db/seeder"
	"questionboard/internal/utils"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := utils.NewLogger(os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	utils.LoadEnv(logger)

	cliApp := &cli.App{
		Name:  "questionboard",
		Usage: "board-scoped questions with voting and fuzzy search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Action: func(c *cli.Context) error {
			return serve(c, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP server",
				Action: func(c *cli.Context) error {
					return serve(c, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or upgrade the schema and exit",
				Action: func(c *cli.Context) error {
					return migrate(c, logger)
				},
			},
			{
				Name:  "seed",
				Usage: "replace the demo board with fixture questions",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "board", Usage: "board to reseed (defaults to DEMO_BOARD)"},
				},
				Action: func(c *cli.Context) error {
					return seed(c, logger)
				},
			},
			{
				Name:  "search",
				Usage: "print ranked questions of a board as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "board", Required: true},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
					&cli.StringFlag{Name: "strategy", Usage: "fuzzy or storage"},
					&cli.IntFlag{Name: "limit"},
				},
				Action: func(c *cli.Context) error {
					return search(c, logger)
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Fatal("Command failed", zap.Error(err))
	}
}

func loadConfig(c *cli.Context, logger *zap.Logger) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	logger.Info("Config loaded",
		zap.String("server_port", cfg.ServerPort),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.String("search_strategy", cfg.SearchStrategy),
		zap.String("env", cfg.Env),
	)
	return &cfg, nil
}

func serve(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.Bootstrap(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap application: %w", err)
	}
	// Close cancels the hub and Redis monitor before closing their connections.
	defer application.Close()

	addr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    addr,
		Handler: application.Router.Engine,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", "localhost"+addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}

func migrate(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	return db.Migrate(conn, logger)
}

func seed(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}

	conn, err := db.Connect(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(conn, logger); err != nil {
		return err
	}

	board := c.String("board")
	if board == "" {
		board = cfg.DemoBoard
	}
	_, err = seeder.NewSeeder(conn, logger).ReseedDemo(c.Context, board)
	return err
}

func search(c *cli.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return err
	}
	// no listeners, relay or seeding for a one-shot query
	cfg.RedisURL = ""
	cfg.SeedDemo = false

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	application, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	questions, err := application.Questions.List(ctx, c.String("board"), question.SearchParams{
		Query:    c.String("query"),
		Limit:    c.Int("limit"),
		Strategy: c.String("strategy"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(questions)
}
