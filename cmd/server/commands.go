package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"restaurant_pos_backend/internal/config"
	"restaurant_pos_backend/internal/database"
	"restaurant_pos_backend/internal/middleware"
	"restaurant_pos_backend/internal/router"
	"restaurant_pos_backend/internal/storage"
	"restaurant_pos_backend/pkg/metrics"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "restaurant-pos",
		Short:         "Restaurant point-of-sale API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Apply the schema, seed defaults and start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), envFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create missing tables and indexes",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(cmd.Context(), envFile, func(ctx context.Context, _ *config.Config, db *sql.DB) error {
					return database.ApplySchema(ctx, db)
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the admin account and default categories if absent",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(cmd.Context(), envFile, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
					return database.Seed(ctx, db, cfg.AdminUsername, cfg.AdminPassword)
				})
			},
		},
	)
	return root
}

func loadConfig(envFile string) (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	utils.InitLogger(utils.LoggerOptions{
		Level:   cfg.LogLevel,
		Console: !cfg.IsProduction(),
		File:    cfg.LogFile,
	})
	return cfg, nil
}

func withDatabase(ctx context.Context, envFile string, fn func(context.Context, *config.Config, *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, cfg, db)
}

func runServe(parent context.Context, envFile string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withDatabase(ctx, envFile, func(ctx context.Context, cfg *config.Config, db *sql.DB) error {
		if err := database.ApplySchema(ctx, db); err != nil {
			return err
		}
		if err := database.Seed(ctx, db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}

		images, err := storage.NewImageStore(cfg.UploadDir, cfg.UploadMaxBytes)
		if err != nil {
			return err
		}
		m := metrics.New(cfg.MetricsNamespace)

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		engine := gin.New()
		engine.Use(middleware.Recovery())
		engine.Use(utils.GinLogger())
		engine.Use(m.Middleware())
		engine.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
		engine.MaxMultipartMemory = cfg.UploadMaxBytes

		router.Setup(engine, db, cfg, images, m)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "env": cfg.Env, "upload_dir": images.Dir()})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		utils.LogInfo("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		utils.LogInfo("Server stopped")
		return nil
	})
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	c.AllowCredentials = true
	return c
}
