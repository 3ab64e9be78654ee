package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/integrity"
	"dreamart/internal/pipeline"
	"dreamart/internal/services"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var reconcile bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Audit the stage tree and report every missing artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, store *catalog.Store, p *pipeline.Pipeline) error {
				validator := integrity.New(cfg, ctx.ensureLogger())
				problems := validator.Validate()
				if reconcile {
					more, err := validator.Reconcile(cmd.Context(), store, p.Registry())
					if err != nil {
						return err
					}
					problems = append(problems, more...)
				}

				out := cmd.OutOrStdout()
				if len(problems) == 0 {
					fmt.Fprintln(out, "Tree is clean")
					return nil
				}

				rows := make([][]string, 0, len(problems))
				for i, problem := range problems {
					rows = append(rows, []string{fmt.Sprintf("%d", i+1), problem})
				}
				fmt.Fprintln(out, renderTable(out, []string{"#", "Problem"}, rows, []columnAlignment{alignRight, alignLeft}))
				return services.Wrap(services.ErrPrerequisite, "cli", "validate",
					fmt.Sprintf("%d problems found", len(problems)), nil)
			})
		},
	}

	cmd.Flags().BoolVar(&reconcile, "reconcile", false, "Also cross-check catalog and registry against the tree")
	return cmd
}
