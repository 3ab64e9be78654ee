package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/pipeline"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <filename>",
		Short: "Move an artwork into the processed stage and run analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(_ *config.Config, _ *catalog.Store, p *pipeline.Pipeline) error {
				art, err := p.Analyze(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Processed %s (%s)\n", art.Slug, art.SKU)
				return nil
			})
		},
	}
}
