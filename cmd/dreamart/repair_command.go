package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dreamart/internal/catalog"
	"dreamart/internal/config"
	"dreamart/internal/imageops"
	"dreamart/internal/integrity"
	"dreamart/internal/pipeline"
	"dreamart/internal/sku"
)

func newRepairCommand(ctx *commandContext) *cobra.Command {
	var skuFlag string
	var auto bool

	cmd := &cobra.Command{
		Use:   "repair [slug]",
		Short: "Find and fix unanalysed artworks without a SKU",
		Long: `Without arguments, lists unanalysed folders whose filenames carry no SKU.
With a slug, assigns a SKU to that folder (--sku to supply one, otherwise the
next sequential SKU) and regenerates its derivatives. --auto repairs every
orphan in one pass.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(cfg *config.Config, _ *catalog.Store, _ *pipeline.Pipeline) error {
				logger := ctx.ensureLogger()
				allocator := sku.NewAllocator(cfg.Paths.TrackerFile, cfg.SKU.Prefix, cfg.SKU.Digits, logger)
				processor := imageops.NewProcessor(cfg.Imaging, logger)
				repairer := integrity.NewRepairer(cfg, allocator, processor, logger)
				out := cmd.OutOrStdout()

				if len(args) == 1 {
					id, err := repairer.Repair(cmd.Context(), args[0], skuFlag)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Repaired %s with %s\n", args[0], id)
					return nil
				}

				orphans, err := repairer.ScanOrphans()
				if err != nil {
					return err
				}
				if len(orphans) == 0 {
					fmt.Fprintln(out, "No orphaned artworks found")
					return nil
				}
				if !auto {
					for _, slug := range orphans {
						fmt.Fprintf(out, "Orphan: %s\n", slug)
					}
					return nil
				}
				for _, slug := range orphans {
					id, err := repairer.Repair(cmd.Context(), slug, "")
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Repaired %s with %s\n", slug, id)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&skuFlag, "sku", "", "SKU to assign to the named orphan")
	cmd.Flags().BoolVar(&auto, "auto", false, "Repair every orphan with fresh sequential SKUs")
	return cmd
}
