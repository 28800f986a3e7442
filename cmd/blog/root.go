package main

import (
	"github.com/Bilaal96/blog-next-strapi/internal/config"
	"github.com/Bilaal96/blog-next-strapi/pkg/logging"
	"github.com/spf13/cobra"
)

// rootOptions carries the persistent flags and the configuration they load.
type rootOptions struct {
	configPath string
	envFiles   []string
	debug      bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "blog",
		Short:         "FreeRoam blog front-end",
		Long:          "Serves the paginated article listing of the FreeRoam blog from a Strapi GraphQL API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath, opts.envFiles...)
			if err != nil {
				return err
			}

			level := logging.LogLevel(cfg.LogLevel)
			if opts.debug {
				level = logging.LevelDebug
			}
			logging.Setup(logging.Config{Level: level, Pretty: cfg.LogPretty, Output: cmd.ErrOrStderr()})

			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newServeCmd(opts), newExportCmd(opts))

	return cmd
}
