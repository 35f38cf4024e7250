package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gillessed/palantarot/engine"
	"github.com/gillessed/palantarot/internal/auth"
	"github.com/gillessed/palantarot/internal/cache"
	"github.com/gillessed/palantarot/internal/config"
	"github.com/gillessed/palantarot/internal/database"
	"github.com/gillessed/palantarot/internal/play"
	"github.com/gillessed/palantarot/internal/server"
	"github.com/gillessed/palantarot/internal/socket"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "palantarot",
	Short: "French Tarot game server",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.InitLog()
		return serve(cmd.Context(), cfg)
	},
}

var (
	tokenPlayer string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed player token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		token, err := auth.NewSigner(cfg.JWTSecret).Issue(engine.PlayerID(tokenPlayer), tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := play.Options{DealAttempts: cfg.DealAttempts}

	if cfg.RedisAddr != "" {
		if err := cache.ConnectRedis(ctx, cfg.RedisAddr); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer cache.Rdb.Close()
		historian := cache.NewHistorian(cache.Rdb, 0)
		defer historian.Close()
		opts.OnEvents = historian.Record
		log.Infof("Recording game events to redis at %s", cfg.RedisAddr)
	}

	if cfg.DatabaseURL != "" {
		if err := database.Connect(ctx, cfg.DatabaseURL); err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.DB.Close()
		opts.OnComplete = database.OutcomeSink(database.DB)
		log.Info("Storing game outcomes to postgres")
	}

	handlerOpts := socket.Options{
		WriteTimeout:   cfg.WriteTimeout,
		AllowDebug:     cfg.AllowDebug,
		OriginPatterns: cfg.Origins(),
	}
	routerOpts := server.Options{AllowDebug: cfg.AllowDebug}
	if cfg.JWTSecret != "" {
		signer := auth.NewSigner(cfg.JWTSecret)
		handlerOpts.Verifier = signer
		routerOpts.Verifier = signer
	}
	if cfg.AllowDebug {
		log.Warn("Debug messages are enabled")
	}

	svc := play.NewPlayService(opts)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(svc, socket.NewHandler(svc, handlerOpts), routerOpts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file read before the environment")
	tokenCmd.Flags().StringVar(&tokenPlayer, "player", "", "player id to sign")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime, 0 for none")
	_ = tokenCmd.MarkFlagRequired("player")
	rootCmd.AddCommand(serveCmd, tokenCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Errorf("palantarot: %v", err)
		os.Exit(1)
	}
}
