package config

const (
	defaultRoot          = "~/.local/share/dreamart"
	defaultUnanalysedDir = "~/.local/share/dreamart/art-processing/unanalysed-artwork"
	defaultProcessedDir  = "~/.local/share/dreamart/art-processing/processed-artwork"
	defaultFinalisedDir  = "~/.local/share/dreamart/art-processing/finalised-artwork"
	defaultTemplatesDir  = "~/.local/share/dreamart/mockup-templates"
	defaultRegistryFile  = "~/.local/share/dreamart/master-artwork-paths.json"
	defaultTrackerFile   = "~/.local/share/dreamart/sku-tracker.json"
	defaultCatalogFile   = "~/.local/share/dreamart/catalog.db"
	defaultLogDir        = "~/.local/share/dreamart/logs"

	defaultSKUPrefix = "RJC"
	defaultSKUDigits = 5

	defaultThumbLongEdge   = 2000
	defaultAnalyseLongEdge = 3800
	defaultPreviewWidth    = 2000
	defaultPreviewMaxBytes = 600 * 1024
	defaultQualityStart    = 95
	defaultQualityFloor    = 25
	defaultQualityStep     = 5
	// Roughly a 10k x 10k image; larger decodes are flagged for review.
	defaultMaxPixels = 100_000_000

	defaultAITimeoutSeconds = 30
	defaultAIBaseURL        = "https://api.openai.com/v1"
	defaultAIModel          = "gpt-image-1"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Root:          defaultRoot,
			UnanalysedDir: defaultUnanalysedDir,
			ProcessedDir:  defaultProcessedDir,
			FinalisedDir:  defaultFinalisedDir,
			TemplatesDir:  defaultTemplatesDir,
			RegistryFile:  defaultRegistryFile,
			TrackerFile:   defaultTrackerFile,
			CatalogFile:   defaultCatalogFile,
			LogDir:        defaultLogDir,
		},
		SKU: SKU{
			Prefix: defaultSKUPrefix,
			Digits: defaultSKUDigits,
		},
		Imaging: Imaging{
			ThumbLongEdge:   defaultThumbLongEdge,
			AnalyseLongEdge: defaultAnalyseLongEdge,
			PreviewWidth:    defaultPreviewWidth,
			PreviewMaxBytes: defaultPreviewMaxBytes,
			QualityStart:    defaultQualityStart,
			QualityFloor:    defaultQualityFloor,
			QualityStep:     defaultQualityStep,
			MaxPixels:       defaultMaxPixels,
		},
		AI: AI{
			Enabled:        false,
			BaseURL:        defaultAIBaseURL,
			Model:          defaultAIModel,
			TimeoutSeconds: defaultAITimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
