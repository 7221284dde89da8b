package textextract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
)

type fakeRunner struct {
	out     []byte
	err     error
	lastBin string
	lastArg []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ []byte) ([]byte, error) {
	f.lastBin = name
	f.lastArg = args
	return f.out, f.err
}

func testConfig() config.ExtractionConfig {
	return config.ExtractionConfig{
		PdftotextBin:         "pdftotext",
		TesseractBin:         "tesseract",
		TesseractLang:        "eng",
		Timeout:              5 * time.Second,
		DefaultOCRConfidence: 0.8,
	}
}

func TestExtractPlainText(t *testing.T) {
	e := New(&fakeRunner{}, testConfig(), logging.NewNopLogger())

	res := e.Extract(context.Background(), document.KindText, []byte("hello claim"))
	assert.Equal(t, "hello claim", res.Text)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, "en", res.LanguageTag)
}

func TestExtractPDF(t *testing.T) {
	runner := &fakeRunner{out: []byte("Form A\nApplicant: Ramu Majhi\n")}
	e := New(runner, testConfig(), logging.NewNopLogger())

	res := e.Extract(context.Background(), document.KindPDF, []byte("%PDF-1.4"))
	assert.Equal(t, "pdftotext", runner.lastBin)
	assert.Contains(t, res.Text, "Ramu Majhi")
	assert.Equal(t, 0.9, res.Confidence)
}

func TestExtractImageTSVConfidence(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tApplicant\n" +
		"5\t1\t1\t1\t1\t2\t12\t0\t10\t10\t80\tRamu\n" +
		"4\t1\t1\t1\t2\t0\t0\t12\t10\t10\t-1\t\n" +
		"5\t1\t1\t1\t2\t1\t0\t12\t10\t10\t70\tMajhi\n"
	runner := &fakeRunner{out: []byte(tsv)}
	e := New(runner, testConfig(), logging.NewNopLogger())

	res := e.Extract(context.Background(), document.KindImage, []byte{0xFF, 0xD8})
	assert.Equal(t, "tesseract", runner.lastBin)
	assert.Equal(t, "Applicant Ramu\nMajhi", res.Text)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9, "mean of 90, 80, 70 over 100")
}

func TestExtractImageMalformedConfidenceClamped(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t500\tApplicant\n" +
		"5\t1\t1\t1\t1\t2\t12\t0\t10\t10\t90\tRamu\n"
	e := New(&fakeRunner{out: []byte(tsv)}, testConfig(), logging.NewNopLogger())

	res := e.Extract(context.Background(), document.KindImage, []byte{0xFF, 0xD8})
	assert.Equal(t, 1.0, res.Confidence, "conf values above 100 must not push the mean past 1")
	assert.Equal(t, "Applicant Ramu", res.Text)
}

func TestExtractImageNoWordsUsesDefault(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"
	e := New(&fakeRunner{out: []byte(tsv)}, testConfig(), logging.NewNopLogger())

	res := e.Extract(context.Background(), document.KindImage, []byte{0x00})
	assert.Equal(t, "", res.Text)
	assert.Equal(t, 0.8, res.Confidence)
}

func TestExtractDegradesOnFailure(t *testing.T) {
	e := New(&fakeRunner{err: errors.New("tesseract: not found")}, testConfig(), logging.NewNopLogger())

	res := e.Extract(context.Background(), document.KindImage, []byte{0x00})
	assert.Empty(t, res.Text)
	assert.Zero(t, res.Confidence)
	assert.Contains(t, res.EngineNote, "ocr-error")

	res = e.Extract(context.Background(), document.FileKind("spreadsheet"), nil)
	assert.Zero(t, res.Confidence)
	assert.Contains(t, res.EngineNote, "dispatch-error")
}
