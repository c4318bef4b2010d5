package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carehub/portal/internal/config"
	"github.com/carehub/portal/internal/domain/clinical"
	"github.com/carehub/portal/internal/domain/dashboard"
	"github.com/carehub/portal/internal/domain/identity"
	"github.com/carehub/portal/internal/domain/inventory"
	"github.com/carehub/portal/internal/domain/medication"
	"github.com/carehub/portal/internal/domain/notification"
	"github.com/carehub/portal/internal/domain/scheduling"
	"github.com/carehub/portal/internal/domain/session"
	"github.com/carehub/portal/internal/platform/auth"
	"github.com/carehub/portal/internal/platform/db"
	"github.com/carehub/portal/internal/platform/middleware"
	"github.com/carehub/portal/internal/platform/sandbox"
	"github.com/carehub/portal/migrations"
	"github.com/carehub/portal/pkg/caldate"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "portal-server",
		Short:        "CareHub patient portal API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(dashboardCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrations.FS).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrations.FS).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	})

	return cmd
}

func printMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the demo dataset into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			d, err := demoDataset(cfg)
			if err != nil {
				return err
			}
			res, err := sandbox.Seed(ctx, pool, d)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard payload for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			todayFlag, _ := cmd.Flags().GetString("today")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			stores, _, closeStores, err := openStores(ctx, cfg, zerolog.Nop())
			if err != nil {
				return err
			}
			defer closeStores()

			today, err := resolveToday(cfg)
			if err != nil {
				return err
			}
			if todayFlag != "" {
				d, err := caldate.Parse(todayFlag)
				if err != nil {
					return fmt.Errorf("--today: %w", err)
				}
				today = caldate.Fixed(d)
			}

			users := identity.NewService(stores.Users)
			viewer, err := users.FindByEmail(ctx, email)
			if err != nil && !errors.Is(err, identity.ErrNotFound) {
				return err
			}
			composer := dashboard.NewComposer(users, stores.Appointments, stores.Medications, stores.Records, stores.Inventory)
			payload, err := composer.Compose(ctx, viewer, today())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}
	cmd.Flags().String("email", "", "Email of the user whose dashboard to render")
	cmd.Flags().String("today", "", "Date to render for (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

// demoDataset is the built-in dataset, with DEMO_PASSWORD hashed onto
// every user when it is set.
func demoDataset(cfg *config.Config) (sandbox.Dataset, error) {
	d := sandbox.Demo()
	if cfg.DemoPassword == "" {
		return d, nil
	}
	hash, err := session.HashPassword(cfg.DemoPassword)
	if err != nil {
		return sandbox.Dataset{}, err
	}
	return d.WithPassword(hash), nil
}

// openStores returns the configured data source and a func that releases it.
func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (sandbox.Stores, *pgxpool.Pool, func(), error) {
	if cfg.DataSource == config.DataSourcePostgres {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return sandbox.Stores{}, nil, nil, err
		}
		logger.Info().Msg("connected to database")
		return sandbox.PostgresStores(pool), pool, pool.Close, nil
	}

	d, err := demoDataset(cfg)
	if err != nil {
		return sandbox.Stores{}, nil, nil, err
	}
	logger.Info().Int("users", len(d.Users)).Msg("serving the demo dataset from memory")
	return sandbox.MemoryStores(d), nil, func() {}, nil
}

func resolveToday(cfg *config.Config) (caldate.TodayFunc, error) {
	d, ok, err := cfg.FixedToday()
	if err != nil {
		return nil, err
	}
	if ok {
		return caldate.Fixed(d), nil
	}
	return caldate.SystemToday(time.Local), nil
}

// resolveSigningKey returns the configured key, or a random one in
// development. The second value is true when the key was generated.
func resolveSigningKey(cfg *config.Config) ([]byte, bool, error) {
	key, err := cfg.SigningKey()
	if err != nil {
		return nil, false, err
	}
	if key != nil {
		return key, false, nil
	}
	if cfg.ResolvedAuthMode() != config.AuthModeDevelopment {
		return nil, false, fmt.Errorf("SESSION_SIGNING_KEY is required")
	}
	key = make([]byte, 32)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("failed to generate random signing key: %w", err)
	}
	return key, true, nil
}

func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(), func() {}, nil
	}
	client, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
}

// deps is everything the HTTP surface needs.
type deps struct {
	cfg      *config.Config
	logger   zerolog.Logger
	stores   sandbox.Stores
	sessions session.Store
	tokens   *auth.TokenIssuer
	today    caldate.TodayFunc
	pool     *pgxpool.Pool
}

func newServer(d deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(d.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(d.logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	users := identity.NewService(d.stores.Users)
	sessions := session.NewService(&session.DirectoryAuthenticator{
		Users:             users,
		LoginDelay:        d.cfg.LoginDelay,
		AllowPresenceOnly: d.cfg.AllowPresenceOnly(),
		Logger:            d.logger,
	}, d.sessions, d.logger)

	e.Use(auth.SessionMiddleware(d.tokens, sessions))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(d.pool))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: d.cfg.RateLimitRPS,
		BurstSize:         d.cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 || rateLimitCfg.BurstSize <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1 := e.Group("/api/v1", middleware.RateLimit(rateLimitCfg), middleware.RequestTimeout(d.cfg.RequestTimeout))

	session.NewHandler(sessions, d.tokens).RegisterRoutes(apiV1)
	identity.NewHandler(users, d.today).RegisterRoutes(apiV1)

	clinical.NewHandler(clinical.NewService(d.stores.Records), users).RegisterRoutes(apiV1)
	scheduling.NewHandler(scheduling.NewService(d.stores.Appointments, d.logger), users, d.today).RegisterRoutes(apiV1)
	medication.NewHandler(medication.NewService(d.stores.Medications, d.logger), users, d.today).RegisterRoutes(apiV1)
	inventory.NewHandler(d.stores.Inventory).RegisterRoutes(apiV1)
	notification.NewHandler(notification.NewService(d.stores.Notifications, d.logger)).RegisterRoutes(apiV1)

	composer := dashboard.NewComposer(users, d.stores.Appointments, d.stores.Medications, d.stores.Records, d.stores.Inventory)
	dashboard.NewHandler(composer, users, d.today).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.AllowPresenceOnly() {
		logger.Warn().Msg("AUTH_MODE=development: users without a password hash can sign in with any non-empty password")
	}

	ctx := context.Background()
	stores, pool, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open data source")
	}
	defer closeStores()

	sessions, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer closeSessions()

	key, generated, err := resolveSigningKey(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve signing key")
	}
	if generated {
		logger.Warn().Msg("no SESSION_SIGNING_KEY set; generated a random key, tokens will not survive a restart")
	}

	today, err := resolveToday(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid TODAY")
	}

	e := newServer(deps{
		cfg:      cfg,
		logger:   logger,
		stores:   stores,
		sessions: sessions,
		tokens:   auth.NewTokenIssuer(key, cfg.SessionTTL),
		today:    today,
		pool:     pool,
	})

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("data_source", cfg.DataSource).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
