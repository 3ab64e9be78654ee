package imageops

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sort"

	"github.com/disintegration/imaging"

	"dreamart/internal/config"
	"dreamart/internal/fileutil"
	"dreamart/internal/logging"
	"dreamart/internal/services"
)

// paletteEdge is the raster size images are downsampled to before counting
// dominant colours.
const paletteEdge = 16

// maxDominantColours caps the QC palette length.
const maxDominantColours = 5

// QC is the lightweight quality-control metadata captured alongside the
// derivative pair.
type QC struct {
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	ColourMode      string   `json:"colour_mode"`
	DominantColours []string `json:"dominant_colours"`
}

// Processor renders derivatives and previews according to the configured
// imaging budget. The decode guard is carried here as explicit state rather
// than mutated into any shared library.
type Processor struct {
	cfg    config.Imaging
	logger *slog.Logger
}

// NewProcessor builds a Processor from imaging configuration. A nil logger
// is replaced with a no-op logger.
func NewProcessor(cfg config.Imaging, logger *slog.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "imageops"),
	}
}

// Decode opens and decodes src. Images above the configured pixel budget are
// logged for review but still decoded; a source that cannot be decoded at
// all yields an invalid-input error and nothing is written.
func (p *Processor) Decode(src string) (image.Image, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, "imageops", "decode", fmt.Sprintf("unreadable image %s", src), err)
	}
	bounds := img.Bounds()
	if p.cfg.MaxPixels > 0 {
		pixels := int64(bounds.Dx()) * int64(bounds.Dy())
		if pixels > p.cfg.MaxPixels {
			p.logger.Warn("large image loaded",
				logging.String("path", src),
				logging.Int("width", bounds.Dx()),
				logging.Int("height", bounds.Dy()),
				logging.String(logging.FieldEventType, "large_image"),
				logging.String(logging.FieldErrorHint, "confirm the upload is intentional"),
			)
		}
	}
	return img, nil
}

// Derivatives produces the THUMB and ANALYSE resized copies of src plus QC
// metadata, writing all three files atomically. The derivative pair is a
// logical unit: if the ANALYSE copy cannot be written the THUMB is removed
// so restart logic sees the artwork as not yet processed.
func (p *Processor) Derivatives(src, thumbPath, analysePath, qcPath string) (QC, error) {
	img, err := p.Decode(src)
	if err != nil {
		return QC{}, err
	}

	thumb := FitLongEdge(img, p.cfg.ThumbLongEdge)
	analyse := FitLongEdge(img, p.cfg.AnalyseLongEdge)

	if err := SaveAtomic(thumbPath, thumb, p.cfg.QualityStart); err != nil {
		return QC{}, fmt.Errorf("write thumb derivative: %w", err)
	}
	if err := SaveAtomic(analysePath, analyse, p.cfg.QualityStart); err != nil {
		_ = os.Remove(thumbPath)
		return QC{}, fmt.Errorf("write analyse derivative: %w", err)
	}

	qc := Inspect(img)
	if err := fileutil.WriteJSONAtomic(qcPath, qc); err != nil {
		return QC{}, fmt.Errorf("write qc metadata: %w", err)
	}

	p.logger.Info("derivatives written",
		logging.String("source", src),
		logging.Int("width", qc.Width),
		logging.Int("height", qc.Height),
	)
	return qc, nil
}

// EncodePreview writes a size-capped preview of src to dst: resize to the
// configured width, then re-encode at decreasing quality until the file fits
// the byte budget or quality reaches the floor. The step-down loop is a
// deliberate quality/size trade-off; the stop condition is
// size <= budget OR quality <= floor.
func (p *Processor) EncodePreview(src, dst string) error {
	img, err := p.Decode(src)
	if err != nil {
		return err
	}
	if img.Bounds().Dx() != p.cfg.PreviewWidth {
		img = imaging.Resize(img, p.cfg.PreviewWidth, 0, imaging.Lanczos)
	}

	quality := p.cfg.QualityStart
	for {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("encode preview: %w", err)
		}
		if int64(buf.Len()) <= p.cfg.PreviewMaxBytes || quality <= p.cfg.QualityFloor {
			if err := fileutil.WriteFileAtomic(dst, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
			p.logger.Info("preview encoded",
				logging.String("path", dst),
				logging.Int("quality", quality),
				logging.Int("bytes", buf.Len()),
			)
			return nil
		}
		quality -= p.cfg.QualityStep
	}
}

// Inspect computes QC metadata for an already decoded image.
func Inspect(img image.Image) QC {
	bounds := img.Bounds()
	return QC{
		Width:           bounds.Dx(),
		Height:          bounds.Dy(),
		ColourMode:      colourMode(img),
		DominantColours: DominantColours(img),
	}
}

// DominantColours downsamples img to a small fixed raster and returns the
// most frequent colours as hex triplets, most frequent first, capped at a
// fixed count. Ties break on hex value so the result is deterministic.
func DominantColours(img image.Image) []string {
	small := imaging.Resize(img, paletteEdge, paletteEdge, imaging.NearestNeighbor)
	counts := make(map[string]int, paletteEdge*paletteEdge)
	bounds := small.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			hex := fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
			counts[hex]++
		}
	}

	palette := make([]string, 0, len(counts))
	for hex := range counts {
		palette = append(palette, hex)
	}
	sort.Slice(palette, func(i, j int) bool {
		if counts[palette[i]] != counts[palette[j]] {
			return counts[palette[i]] > counts[palette[j]]
		}
		return palette[i] < palette[j]
	})
	if len(palette) > maxDominantColours {
		palette = palette[:maxDominantColours]
	}
	return palette
}

// FitLongEdge bounds the image's long edge to edge pixels, preserving aspect
// ratio and never upscaling beyond the source's own dimensions.
func FitLongEdge(img image.Image, edge int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= edge && bounds.Dy() <= edge {
		return img
	}
	return imaging.Fit(img, edge, edge, imaging.Lanczos)
}

// SaveAtomic encodes img in the format implied by the path's extension and
// writes it temp-then-rename. Encoding falls back to JPEG when the extension
// is not recognized.
func SaveAtomic(path string, img image.Image, quality int) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.JPEG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(quality)); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func colourMode(img image.Image) string {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return "L"
	case *image.CMYK:
		return "CMYK"
	case *image.NRGBA64, *image.RGBA64:
		return "RGBA64"
	case *image.NRGBA, *image.RGBA:
		return "RGB"
	default:
		return "RGB"
	}
}
