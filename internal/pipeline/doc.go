// Package pipeline is the stage-transition engine at the center of the
// system: intake into the unanalysed stage, analysis into processed,
// finalisation into finalised, and deletion. Each transition checks its
// prerequisites up front, writes files before touching any index, and treats
// the catalog and registry updates as the final step.
package pipeline
