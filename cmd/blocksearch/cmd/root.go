// Package cmd provides the CLI commands for blocksearch.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolboxsearch/internal/config"
	"github.com/jonwraymond/toolboxsearch/internal/logging"
)

// version is set at build time with -ldflags.
var version = "dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	defs       []string
	toolboxes  []string
	standard   bool
	logLevel   string
	logFormat  string

	// Resolved in PersistentPreRunE.
	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates the root command for the blocksearch CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "blocksearch",
		Short: "Search the blocks of a visual programming toolbox",
		Long: `blocksearch indexes the blocks of a block-programming toolbox and finds
them by the words on their face: message text, dropdown options and the
types of their shadow blocks.

Examples:
  blocksearch --toolbox toolbox.json match "create list"
  blocksearch --defs custom.yaml --toolbox toolbox.yaml rank "sort" -n 5
  blocksearch --config blocksearch.yaml serve --http :8080`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd)
		},
	}
	cmd.SetVersionTemplate("blocksearch version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (.yaml, .yml or .toml)")
	flags.StringArrayVar(&opts.defs, "defs", nil, "Block definition file, JSON or YAML (repeatable)")
	flags.StringArrayVar(&opts.toolboxes, "toolbox", nil, "Toolbox file to index, JSON or YAML (repeatable)")
	flags.BoolVar(&opts.standard, "standard", true, "Preload the built-in block definitions")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text, json")

	cmd.AddCommand(newMatchCmd(opts))
	cmd.AddCommand(newRankCmd(opts))
	cmd.AddCommand(newServeCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// resolve loads the config file and applies flag overrides on top of it.
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	cfg.Definitions = append(cfg.Definitions, o.defs...)
	cfg.Toolboxes = append(cfg.Toolboxes, o.toolboxes...)
	if flags.Changed("standard") {
		cfg.Standard = o.standard
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	o.cfg = cfg
	o.logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}, cmd.ErrOrStderr())
	o.logger.Debug("configuration resolved",
		slog.String("config", o.configPath),
		slog.Int("definition_files", len(cfg.Definitions)),
		slog.Int("toolbox_files", len(cfg.Toolboxes)),
		slog.Bool("standard", cfg.Standard))
	return nil
}
