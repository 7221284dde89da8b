package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/application/documents"
	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/internal/intelligence/ner"
	"github.com/claimlens/claimlens/internal/intelligence/textextract"
	"github.com/claimlens/claimlens/internal/validation"
)

// processResult is the offline pipeline output for one file.
type processResult struct {
	FileName   string                     `json:"file_name"`
	TypeTag    string                     `json:"type_tag"`
	Extraction document.ExtractionResult  `json:"extraction"`
	Entities   document.EntitySet         `json:"entities"`
	Fields     document.FieldSet          `json:"fields"`
	Validation *document.ValidationResult `json:"validation"`
}

func newProcessCmd() *cobra.Command {
	var (
		typeTag      string
		kindValue    string
		fieldsJSON   string
		registryPath string
	)

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Run the extraction and validation pipeline on a local file",
		Long: "Extracts text (plain, pdftotext or tesseract depending on kind), pulls entities,\n" +
			"derives structured fields and validates them against the document-type rules.\n" +
			"Results are printed as JSON; nothing is stored.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(registryPath)
			if err != nil {
				return err
			}

			kind, err := document.ParseFileKind(resolveKind(kindValue, args[0]))
			if err != nil {
				return err
			}

			var fields document.FieldSet
			if fieldsJSON != "" {
				if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
					return fmt.Errorf("--fields must be a JSON object: %w", err)
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			logger := logging.NewNopLogger()
			extractor := textextract.New(nil, config.ExtractionConfig{
				PdftotextBin:         "pdftotext",
				TesseractBin:         "tesseract",
				TesseractLang:        "eng",
				Timeout:              45 * time.Second,
				DefaultOCRConfidence: 0.8,
			}, logger)

			spec, err := registry.Get(typeTag)
			if err != nil {
				return err
			}

			extraction := extractor.Extract(cmd.Context(), kind, data)
			merged := documents.DeriveFields(spec, extraction.Text)
			for k, v := range fields {
				merged[k] = v
			}

			result, err := validation.New(registry).Validate(typeTag, merged)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), processResult{
				FileName:   filepath.Base(args[0]),
				TypeTag:    typeTag,
				Extraction: extraction,
				Entities:   ner.Extract(extraction.Text),
				Fields:     merged,
				Validation: result,
			})
		},
	}

	cmd.Flags().StringVar(&typeTag, "type", "fra_claim_form", "document type tag")
	cmd.Flags().StringVar(&kindValue, "kind", "", "file kind: text, pdf or image (default: from extension)")
	cmd.Flags().StringVar(&fieldsJSON, "fields", "", "structured field values as a JSON object")
	cmd.Flags().StringVar(&registryPath, "registry", "", "document-type rules YAML (default: built-in rules)")

	return cmd
}

func loadRegistry(path string) (*document.Registry, error) {
	if path == "" {
		return document.DefaultRegistry(), nil
	}
	return document.LoadRegistry(path)
}

// resolveKind falls back to the file extension when --kind is not given.
func resolveKind(kindValue, path string) string {
	if kindValue != "" {
		return kindValue
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf"
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return "image"
	default:
		return "text"
	}
}
