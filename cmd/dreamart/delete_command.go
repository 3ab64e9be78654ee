package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/pipeline"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Remove an artwork from every stage and purge its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(_ *config.Config, _ *catalog.Store, p *pipeline.Pipeline) error {
				if err := p.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
