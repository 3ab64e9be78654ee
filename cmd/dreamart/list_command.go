package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/pipeline"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var stageFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued artworks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(_ *config.Config, store *catalog.Store, _ *pipeline.Pipeline) error {
				var stages []catalog.Stage
				if stageFilter != "" {
					stage := catalog.Stage(stageFilter)
					if !stage.Valid() {
						return fmt.Errorf("unknown stage %q", stageFilter)
					}
					stages = append(stages, stage)
				}

				records, err := store.List(cmd.Context(), stages...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No artworks recorded")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, art := range records {
					rows = append(rows, []string{art.Slug, art.SKU, string(art.Stage), art.Title})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Slug", "SKU", "Stage", "Title"}, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&stageFilter, "stage", "", "Only list artworks in this stage")
	return cmd
}
