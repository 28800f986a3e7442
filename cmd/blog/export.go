package main

import (
	"fmt"
	"time"

	"github.com/Bilaal96/blog-next-strapi/internal/blog"
	"github.com/Bilaal96/blog-next-strapi/pkg/pagination"
	"github.com/spf13/cobra"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		out         string
		concurrency int
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every listing page and article as static HTML",
		Example: `  # Export into ./out
  blog export

  # Export into ./public with at most two parallel API requests
  blog export --out public --concurrency 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			batch := pagination.DefaultConfig()
			batch.MaxConcurrency = concurrency
			batch.Timeout = timeout

			result, err := blog.NewExporter(a.client, a.renderer, a.opts, batch).Export(cmd.Context(), out)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pages and %d articles to %s in %s\n",
				result.Pages, result.Articles, out, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "out", "output directory")
	cmd.Flags().IntVar(&concurrency, "concurrency", pagination.DefaultConfig().MaxConcurrency, "parallel content API requests")
	cmd.Flags().DurationVar(&timeout, "timeout", pagination.DefaultConfig().Timeout, "timeout per listing page request")

	return cmd
}
