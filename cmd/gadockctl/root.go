package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gadock/internal/config"
	"gadock/internal/logging"
	api "gadock/pkg/gadock"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type rootOptions struct {
	configPath string
	storeKind  string
	dbPath     string
	logLevel   string
}

type clientKey struct{}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "gadockctl",
		Short:         "Dock ligands into receptor sites with a genetic algorithm",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(opts)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), clientKey{}, client))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clientFrom(cmd)
			if err != nil {
				return err
			}
			return client.Close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (GADOCK_* env only when empty)")
	pf.StringVar(&opts.storeKind, "store", "", "store backend override: memory|sqlite")
	pf.StringVar(&opts.dbPath, "db-path", "", "sqlite database path override")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override: debug|info|warn|error")

	cmd.AddCommand(
		newInitCommand(),
		newDockCommand(),
		newBatchCommand(),
		newRunsCommand(),
		newPosesCommand(),
		newDiagnosticsCommand(),
		newExportCommand(),
	)
	return cmd
}

func newClient(opts *rootOptions) (*api.Client, error) {
	cfg, err := config.LoadOptional(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.storeKind != "" {
		cfg.Store.Kind = opts.storeKind
	}
	if opts.dbPath != "" {
		cfg.Store.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(log)
	return api.New(api.Options{Config: cfg, Logger: log})
}

func clientFrom(cmd *cobra.Command) (*api.Client, error) {
	client, ok := cmd.Context().Value(clientKey{}).(*api.Client)
	if !ok || client == nil {
		return nil, errors.New("client is not initialized")
	}
	return client, nil
}
