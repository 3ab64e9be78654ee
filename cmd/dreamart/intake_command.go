package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/pipeline"
)

func newIntakeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "intake <file>...",
		Short: "Admit uploaded artwork files into the unanalysed stage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(_ *config.Config, _ *catalog.Store, p *pipeline.Pipeline) error {
				out := cmd.OutOrStdout()
				for _, path := range args {
					art, err := p.Intake(cmd.Context(), path)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Admitted %s as %s (%s)\n", path, art.Slug, art.SKU)
				}
				return nil
			})
		},
	}
}
