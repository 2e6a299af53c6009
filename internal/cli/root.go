// Package cli implements the orderlistid command line tool
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Aidin1998/finalex-ids/internal/config"
	"github.com/Aidin1998/finalex-ids/internal/store"
	"github.com/Aidin1998/finalex-ids/pkg/identifiers"
	"github.com/Aidin1998/finalex-ids/pkg/logger"
	"github.com/Aidin1998/finalex-ids/pkg/metrics"
	"github.com/Aidin1998/finalex-ids/pkg/tracing"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

// app holds the dependencies shared by all subcommands
type app struct {
	configPaths []string
	logLevel    string
	stderr      io.Writer

	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	cache    *redis.Client
	repo     *store.Repository
	issuer   *store.Issuer
	shutdown func(context.Context) error
}

// NewRootCommand builds the orderlistid command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "orderlistid",
		Short:         "Issue and inspect order list identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.stderr = cmd.ErrOrStderr()
			return a.start(cmd.Context())
		},
	}

	root.PersistentFlags().StringSliceVar(&a.configPaths, "config", nil, "Config file(s); later files override earlier ones")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newNewCommand(a),
		newListCommand(a),
		newCheckCommand(a),
		newForgetCommand(a),
	)
	for _, cmd := range root.Commands() {
		closeAfter(cmd, a)
	}
	return root
}

// closeAfter releases a's resources once cmd finishes, including when it
// fails
func closeAfter(cmd *cobra.Command, a *app) {
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if closeErr := a.close(cmd.Context()); err == nil {
			err = closeErr
		}
		return err
	}
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to read .env: %v\n", err)
	}

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// start opens a's resources. On failure whatever was opened is closed again,
// since the subcommand, and with it closeAfter, does not run.
func (a *app) start(ctx context.Context) error {
	if err := a.open(ctx); err != nil {
		_ = a.close(ctx)
		return err
	}
	return nil
}

func (a *app) open(ctx context.Context) error {
	bootLogger, err := logger.NewLoggerWithSink(a.logLevel, "json", zapcore.AddSync(a.stderr))
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(bootLogger, a.configPaths...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
		}
	}
	a.cfg = cfg

	a.logger, err = logger.NewLoggerWithSink(cfg.Logging.Level, cfg.Logging.Format, zapcore.AddSync(a.stderr))
	if err != nil {
		return err
	}

	a.shutdown, err = tracing.Setup(ctx, tracing.Config{Enabled: cfg.Tracing.Enabled, Writer: a.stderr})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	a.db, err = store.NewDatabase(cfg.Database)
	if err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		a.cache, err = store.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.logger.Warn("Redis not available, proceeding without cache", zap.Error(err))
			a.cache = nil
		}
	}

	a.repo = store.NewRepository(a.db, a.cache, a.logger,
		store.WithCacheTTL(time.Duration(cfg.Redis.TTL)*time.Second))
	if err := a.repo.Migrate(ctx); err != nil {
		return err
	}

	generator := identifiers.NewGenerator(cfg.Identifiers.Prefix)
	a.issuer = store.NewIssuer(a.repo, generator, cfg.Identifiers.MaxIssueAttempts, a.logger)
	return nil
}

func (a *app) close(ctx context.Context) error {
	var firstErr error
	if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			firstErr = fmt.Errorf("failed to write metrics textfile: %w", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return firstErr
}
