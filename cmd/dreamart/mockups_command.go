package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/imageops"
	"dreamart/internal/mockups"
	"dreamart/internal/pipeline"
)

func newMockupsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mockups <slug>",
		Short: "Generate template mockups for a processed artwork",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, _ *catalog.Store, _ *pipeline.Pipeline) error {
				processor := imageops.NewProcessor(cfg.Imaging, ctx.ensureLogger())
				generator := mockups.NewGenerator(cfg, processor, ctx.ensureLogger())
				produced, err := generator.Generate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d mockups present for %s\n", len(produced), args[0])
				return nil
			})
		},
	}
}
