package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/pipeline"
)

func newFinaliseCommand(ctx *commandContext) *cobra.Command {
	var meta pipeline.Metadata

	cmd := &cobra.Command{
		Use:   "finalise <slug>",
		Short: "Move a processed artwork with a full mockup set into the finalised stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(_ *config.Config, _ *catalog.Store, p *pipeline.Pipeline) error {
				art, err := p.Finalise(cmd.Context(), args[0], meta)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Finalised %s (%s)\n", art.Slug, art.SKU)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&meta.Title, "title", "", "Listing title")
	cmd.Flags().StringVar(&meta.Description, "description", "", "Listing description")
	cmd.Flags().StringVar(&meta.PrimaryColour, "primary", "", "Primary colour")
	cmd.Flags().StringVar(&meta.SecondaryColour, "secondary", "", "Secondary colour")
	return cmd
}
