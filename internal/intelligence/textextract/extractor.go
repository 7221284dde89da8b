package textextract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
)

// Confidence assigned per extraction strategy.  Plain text is taken at face
// value, pdftotext is reliable but loses layout, and OCR reports its own
// per-word confidence.
const (
	textConfidence = 1.0
	pdfConfidence  = 0.9
)

// languageTag is the only language the field extractors currently handle.
const languageTag = "en"

// Extractor dispatches uploads to the right extraction strategy by file
// kind.  A failed extraction never fails the pipeline: it degrades to an
// empty text with zero confidence and an engine note naming the stage, so
// the document lands in manual review instead of an error queue.
type Extractor struct {
	runner Runner
	cfg    config.ExtractionConfig
	logger logging.Logger
}

// New builds an Extractor.  A nil runner gets the os/exec implementation.
func New(runner Runner, cfg config.ExtractionConfig, logger logging.Logger) *Extractor {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Extractor{runner: runner, cfg: cfg, logger: logger.Named("textextract")}
}

// Extract produces text and a confidence for the given upload.
func (e *Extractor) Extract(ctx context.Context, kind document.FileKind, data []byte) document.ExtractionResult {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	var (
		result document.ExtractionResult
		err    error
	)
	start := time.Now()
	switch kind {
	case document.KindText:
		result = document.ExtractionResult{
			Text:       string(data),
			Confidence: textConfidence,
			EngineNote: "passthrough",
		}
	case document.KindPDF:
		result, err = e.extractPDF(ctx, data)
	case document.KindImage:
		result, err = e.extractImage(ctx, data)
	default:
		err = fmt.Errorf("dispatch-error: unsupported file kind %q", kind)
	}

	if err != nil {
		e.logger.Warn("extraction degraded",
			logging.String("kind", string(kind)),
			logging.Err(err))
		return document.ExtractionResult{
			Text:        "",
			Confidence:  0,
			LanguageTag: languageTag,
			EngineNote:  err.Error(),
		}
	}

	result.LanguageTag = languageTag
	e.logger.Debug("extraction complete",
		logging.String("kind", string(kind)),
		logging.Float64("confidence", result.Confidence),
		logging.Int("chars", len(result.Text)),
		logging.Duration("elapsed", time.Since(start)))
	return result
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (document.ExtractionResult, error) {
	path, cleanup, err := writeTempInput(data, "claimlens-*.pdf")
	if err != nil {
		return document.ExtractionResult{}, fmt.Errorf("pdf-error: %w", err)
	}
	defer cleanup()

	out, err := e.runner.Run(ctx, e.cfg.PdftotextBin, []string{"-layout", path, "-"}, nil)
	if err != nil {
		return document.ExtractionResult{}, fmt.Errorf("pdf-error: %w", err)
	}
	return document.ExtractionResult{
		Text:       string(out),
		Confidence: pdfConfidence,
		EngineNote: "pdftotext",
	}, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (document.ExtractionResult, error) {
	path, cleanup, err := writeTempInput(data, "claimlens-*.img")
	if err != nil {
		return document.ExtractionResult{}, fmt.Errorf("ocr-error: %w", err)
	}
	defer cleanup()

	args := []string{path, "stdout", "-l", e.cfg.TesseractLang, "tsv"}
	out, err := e.runner.Run(ctx, e.cfg.TesseractBin, args, nil)
	if err != nil {
		return document.ExtractionResult{}, fmt.Errorf("ocr-error: %w", err)
	}

	text, conf, words := parseTesseractTSV(string(out))
	if words == 0 {
		conf = e.cfg.DefaultOCRConfidence
	}
	return document.ExtractionResult{
		Text:       text,
		Confidence: conf,
		EngineNote: fmt.Sprintf("tesseract (%d words)", words),
	}, nil
}

// parseTesseractTSV rebuilds line-broken text from tesseract's TSV output
// and averages per-word confidences into [0,1].  Rows with conf -1 are
// layout markers, not words.
func parseTesseractTSV(tsv string) (text string, confidence float64, words int) {
	var (
		b        strings.Builder
		sum      float64
		lastLine = -1
	)
	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 {
			// header row
			continue
		}
		cols := strings.Split(row, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}
		lineNo, _ := strconv.Atoi(cols[4])
		if words > 0 {
			if lineNo != lastLine {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(word)
		lastLine = lineNo
		sum += conf
		words++
	}
	if words == 0 {
		return "", 0, 0
	}
	mean := sum / float64(words) / 100.0
	// A malformed conf column can report >100 per word; the result must
	// stay inside [0,1].
	if mean > 1 {
		mean = 1
	}
	return b.String(), mean, words
}
