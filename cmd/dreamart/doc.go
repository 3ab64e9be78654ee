// Command dreamart drives the artwork pipeline: intake into the unanalysed
// stage, analysis into processed, mockup generation, finalisation, tree
// validation, and repair of orphaned artworks.
package main
