package catalog

import "time"

// Stage identifies an artwork's position in the pipeline.
type Stage string

const (
	StageUnanalysed Stage = "unanalysed"
	StageProcessed  Stage = "processed"
	StageFinalised  Stage = "finalised"
)

var allStages = []Stage{StageUnanalysed, StageProcessed, StageFinalised}

// Valid reports whether s names a known lifecycle stage.
func (s Stage) Valid() bool {
	for _, stage := range allStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Paths carries the artifact locations attached to a record, serialized as a
// JSON column. Fields fill in as the artwork advances through the stages.
type Paths struct {
	Image     string   `json:"image,omitempty"`
	Thumb     string   `json:"thumb,omitempty"`
	Analyse   string   `json:"analyse,omitempty"`
	QC        string   `json:"qc,omitempty"`
	Analysis  string   `json:"analysis,omitempty"`
	Auxiliary string   `json:"auxiliary,omitempty"`
	Preview   string   `json:"preview,omitempty"`
	Mockups   []string `json:"mockups,omitempty"`
}

// Artwork is the typed record the catalog persists per slug. The directory
// tree stays the blob store; this record is what queries and reconciliation
// read instead of re-scanning filenames.
type Artwork struct {
	Slug             string
	SKU              string
	Stage            Stage
	OriginalFilename string
	Paths            Paths
	Title            string
	Description      string
	PrimaryColour    string
	SecondaryColour  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
