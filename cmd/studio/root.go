package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/creator-api/internal/aiproxy"
	"github.com/phrazzld/creator-api/internal/config"
	"github.com/phrazzld/creator-api/internal/platform/logger"
	"github.com/phrazzld/creator-api/internal/settings"
	"github.com/spf13/cobra"
)

// studio carries the state shared by every command: resolved configuration,
// the logger and the process streams.
type studio struct {
	cfgFile  string
	backend  string
	key      string
	provider string
	logLevel string

	cfg    *config.ClientConfig
	logger *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	s := &studio{in: stdin, out: stdout, errOut: stderr}

	root := &cobra.Command{
		Use:           "studio",
		Short:         "AI-assisted writing toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.init()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&s.cfgFile, "config", "", "config file (default: studio.yaml in . or the user config dir)")
	flags.StringVar(&s.backend, "backend", "", "backend base URL")
	flags.StringVar(&s.key, "key", "", "license key")
	flags.StringVar(&s.provider, "provider", "", "AI provider name")
	flags.StringVar(&s.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRewriteCmd(s),
		newEditCmd(s),
		newWriteCmd(s),
		newChunkCmd(s),
		newImageCmd(s),
		newValidateCmd(s),
		newSettingsCmd(s),
	)
	return root
}

func (s *studio) init() error {
	cfg, err := config.LoadClient(s.cfgFile)
	if err != nil {
		return err
	}
	if s.backend != "" {
		cfg.BackendURL = s.backend
	}
	if s.key != "" {
		cfg.LicenseKey = s.key
	}
	if s.provider != "" {
		cfg.Provider = s.provider
	}
	if s.logLevel != "" {
		cfg.LogLevel = s.logLevel
	}
	s.cfg = cfg

	s.logger, err = logger.SetupWithWriter(logger.Config{Level: cfg.LogLevel, Format: "text"}, s.errOut)
	return err
}

func (s *studio) client() (*aiproxy.Client, error) {
	return aiproxy.New(s.cfg.BackendURL, s.cfg.LicenseKey,
		aiproxy.WithProvider(s.cfg.Provider),
		aiproxy.WithTimeout(time.Duration(s.cfg.RequestTimeoutSeconds)*time.Second),
		aiproxy.WithLogger(s.logger))
}

func (s *studio) chunkDelay() time.Duration {
	return time.Duration(s.cfg.ChunkDelayMillis) * time.Millisecond
}

// withStore opens the settings store for the duration of fn.
func (s *studio) withStore(ctx context.Context, fn func(*settings.Store) error) error {
	st, err := settings.Open(ctx, s.cfg.StatePath, s.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			s.logger.Warn("failed to close settings store", "error", err)
		}
	}()
	return fn(st)
}

// saveState persists st, logging instead of failing the command.
func (s *studio) saveState(ctx context.Context, st settings.State) {
	err := s.withStore(ctx, func(store *settings.Store) error {
		return store.Save(ctx, st)
	})
	if err != nil {
		s.logger.Warn("failed to save settings", "module", st.StateKey(), "error", err)
	}
}

// loadState fills st from the store when a saved document exists.
func (s *studio) loadState(ctx context.Context, st settings.State) {
	err := s.withStore(ctx, func(store *settings.Store) error {
		_, err := store.Load(ctx, st)
		return err
	})
	if err != nil {
		s.logger.Warn("failed to load settings", "module", st.StateKey(), "error", err)
	}
}

func (s *studio) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
