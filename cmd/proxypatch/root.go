package main

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/proxypatch/cmd/proxypatch/commands"
	"github.com/walteh/proxypatch/cmd/proxypatch/opts"
	"github.com/walteh/proxypatch/pkg/config"
	"github.com/walteh/proxypatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd creates the proxypatch command tree. With no subcommand it patches
// the configured targets.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxypatch",
		Short: "Rewrite hardcoded /api/ paths in the dev proxy config API",
		Long: `proxypatch rewrites utils/proxyConfigAPI.js so every API path is built
from a configurable base path instead of a hardcoded /api/ prefix.

Run it with no arguments from the project root to patch the file in place.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Apply(cmd.Context(), o)
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewCheckCmd(o),
		commands.NewPlanCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultFile, "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&o.Target, "target", "t", "", "file to patch, relative to the root directory")
	cmd.PersistentFlags().StringVar(&o.Root, "root", ".", "directory targets are resolved under")
	cmd.PersistentFlags().BoolVar(&o.Backup, "backup", false, "keep <target>.bak before writing")
	cmd.PersistentFlags().BoolVar(&o.Force, "force", false, "patch files that already carry the patch")
}

// setup configures logging and loads the config, then applies flag overrides
func setup(cmd *cobra.Command, o *opts.RootOpts) error {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	o.Logger = log.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), level)
	ctx := log.NewContext(cmd.Context(), o.Logger)
	cmd.SetContext(ctx)

	// an explicit --config must exist; the default is looked up under --root
	flags := cmd.Flags()
	required := flags.Changed("config")
	path := o.ConfigFile
	if !required {
		path = filepath.Join(o.Root, config.DefaultFile)
	}

	cfg, err := config.LoadOrDefault(ctx, path, required)
	if err != nil {
		return err
	}

	if flags.Changed("root") {
		cfg.Root = o.Root
	}
	if o.Target != "" {
		cfg.Targets = []string{o.Target}
	}
	if o.Backup {
		cfg.Backup = true
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.Location()).Stringer("settings", cfg).Msg("configured")

	o.Config = cfg
	return nil
}
