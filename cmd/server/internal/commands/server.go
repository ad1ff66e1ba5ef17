package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/interviewnotes/internal/auth"
	"github.com/wolfeidau/interviewnotes/internal/bootstrap"
	"github.com/wolfeidau/interviewnotes/internal/interview"
	"github.com/wolfeidau/interviewnotes/internal/logger"
	"github.com/wolfeidau/interviewnotes/internal/login"
	"github.com/wolfeidau/interviewnotes/internal/server"
	"github.com/wolfeidau/interviewnotes/internal/store"
	memorystore "github.com/wolfeidau/interviewnotes/internal/store/memory"
	postgresstore "github.com/wolfeidau/interviewnotes/internal/store/postgres"
	"github.com/wolfeidau/interviewnotes/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"INTERVIEWNOTES_LISTEN"`
	Cert   string `help:"path to TLS cert file, serves plain HTTP when empty" default:"" env:"INTERVIEWNOTES_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"INTERVIEWNOTES_TLS_KEY"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"INTERVIEWNOTES_CORS_ORIGINS"`

	// Token configuration
	JWTSecret  string        `name:"jwt-secret" help:"HMAC secret used to sign bearer tokens (at least 64 bytes)" env:"INTERVIEWNOTES_JWT_SECRET"`
	JWTTTL     time.Duration `name:"jwt-ttl" help:"bearer token lifetime" default:"24h" env:"INTERVIEWNOTES_JWT_TTL"`
	BcryptCost int           `help:"bcrypt cost for password hashes, 0 uses the library default" default:"0" env:"INTERVIEWNOTES_BCRYPT_COST"`

	// Abuse protection
	AuthRateLimit int `help:"login and register attempts per client IP per minute, 0 disables" default:"20" env:"INTERVIEWNOTES_AUTH_RATE_LIMIT"`

	// Operational modes
	Telemetry bool   `help:"export metrics over OTLP" default:"false" env:"INTERVIEWNOTES_TELEMETRY"`
	Tracing   bool   `help:"export traces over OTLP and instrument HTTP handlers" default:"false" env:"INTERVIEWNOTES_TRACING"`
	SeedFile  string `help:"YAML file of users and candidates to create on startup" default:"" env:"INTERVIEWNOTES_SEED_FILE"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"INTERVIEWNOTES_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32         `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32         `help:"minimum number of connections in pool" default:"2"`
	MaxConnLifetime time.Duration `help:"maximum connection lifetime" default:"1h"`
	MaxConnIdleTime time.Duration `help:"maximum connection idle time" default:"30m"`
	StartupTimeout  time.Duration `help:"how long to retry the initial connection" default:"1m"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"INTERVIEWNOTES_POSTGRES_AUTO_MIGRATE"`
}

func (s *PostgresStoreFlags) validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

// Validate is called by kong once flags and environment have been applied.
func (c *ServerCmd) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT secret is required (--jwt-secret or INTERVIEWNOTES_JWT_SECRET)")
	}
	if len(c.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("JWT secret must be at least %d bytes (512 bits) for HMAC-SHA512", auth.MinSecretLength)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT TTL must be positive")
	}
	if (c.Cert == "") != (c.Key == "") {
		return errors.New("TLS certificate and key must be provided together (--cert and --key)")
	}
	if c.StoreType == "postgres" {
		return c.PostgresStore.validate()
	}
	return nil
}

// stores groups the repositories the services are built on.
type stores struct {
	users      store.UserStore
	candidates store.CandidateStore
	interviews store.InterviewStore
	close      func()
}

func (c *ServerCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx = log.WithContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	// Setup telemetry if enabled
	if c.Telemetry || c.Tracing {
		shutdown, err := telemetry.InitTelemetry(ctx, telemetry.Options{
			ServiceName: "interviewnotes-server",
			Version:     globals.Version,
			Tracing:     c.Tracing,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	st, err := c.openStores(ctx, log)
	if err != nil {
		return err
	}
	defer st.close()

	hasher := auth.NewPasswordHasher(c.BcryptCost)

	if c.SeedFile != "" {
		if err := c.seed(ctx, st, hasher); err != nil {
			return err
		}
	}

	codec := auth.NewTokenCodec([]byte(c.JWTSecret), c.JWTTTL)

	loginService, err := login.NewService(st.users, codec, hasher)
	if err != nil {
		return fmt.Errorf("failed to create login service: %w", err)
	}

	srv := server.NewServer(
		interview.NewService(st.interviews, st.candidates, st.users),
		loginService,
		auth.NewAuthenticator(codec, auth.NewPrincipalStore(st.users)),
		server.Options{
			CORSOrigins:   c.CORSOrigins,
			AuthRateLimit: c.AuthRateLimit,
			Tracing:       c.Tracing,
		},
	)

	httpServer := configureHTTPServer(c.Listen, srv.Handler(log))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Listen).Bool("tls", c.Cert != "").Msg("Starting HTTP server")
		if c.Cert != "" {
			errCh <- httpServer.ListenAndServeTLS(c.Cert, c.Key)
			return
		}
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}

func (c *ServerCmd) openStores(ctx context.Context, log zerolog.Logger) (*stores, error) {
	switch c.StoreType {
	case "postgres":
		// Create shared connection pool for all PostgreSQL stores
		pool, err := postgresstore.NewPool(ctx, c.PostgresStore.poolConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}

		log.Info().Bool("auto_migrate", c.PostgresStore.AutoMigrate).Msg("Using PostgreSQL stores with shared connection pool")

		return &stores{
			users:      postgresstore.NewUserStore(pool),
			candidates: postgresstore.NewCandidateStore(pool),
			interviews: postgresstore.NewInterviewStore(pool),
			close:      pool.Close,
		}, nil

	default:
		log.Info().Msg("Using in-memory stores")
		return &stores{
			users:      memorystore.NewUserStore(),
			candidates: memorystore.NewCandidateStore(),
			interviews: memorystore.NewInterviewStore(),
			close:      func() {},
		}, nil
	}
}

func (c *ServerCmd) seed(ctx context.Context, st *stores, hasher *auth.PasswordHasher) error {
	cfg, err := bootstrap.LoadFile(c.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	result, err := bootstrap.Bootstrap(ctx, bootstrap.Stores{Users: st.users, Candidates: st.candidates}, hasher, cfg)
	if err != nil {
		return fmt.Errorf("failed to seed stores: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("file", c.SeedFile).
		Int("users_created", result.UsersCreated).
		Int("users_skipped", result.UsersSkipped).
		Int("candidates_created", result.CandidatesCreated).
		Int("candidates_skipped", result.CandidatesSkipped).
		Msg("Seed data applied")

	return nil
}

func (s *PostgresStoreFlags) poolConfig() *postgresstore.PoolConfig {
	return &postgresstore.PoolConfig{
		ConnString:      s.ConnString,
		MaxConns:        s.MaxConns,
		MinConns:        s.MinConns,
		MaxConnLifetime: s.MaxConnLifetime,
		MaxConnIdleTime: s.MaxConnIdleTime,
		StartupTimeout:  s.StartupTimeout,
		AutoMigrate:     s.AutoMigrate,
	}
}
