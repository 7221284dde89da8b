// Package ingest consumes document.uploaded events and drives stored files
// through the processing pipeline.
package ingest

import (
	"context"
	"encoding/json"
	"path"

	"github.com/claimlens/claimlens/internal/application/documents"
	"github.com/claimlens/claimlens/internal/domain/document"
	"github.com/claimlens/claimlens/internal/infrastructure/messaging/kafka"
	"github.com/claimlens/claimlens/internal/infrastructure/monitoring/logging"
	"github.com/claimlens/claimlens/pkg/errors"
	"github.com/claimlens/claimlens/pkg/types/common"
)

// Pipeline is the document processing entry point.
type Pipeline interface {
	ExtractAndValidate(ctx context.Context, req documents.UploadRequest) (*document.UploadedDocument, error)
}

// Downloader fetches stored upload bytes.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Worker handles one uploaded-document event at a time; concurrency comes
// from running several workers over the same consumer group.
type Worker struct {
	pipeline Pipeline
	store    Downloader
	logger   logging.Logger
}

func NewWorker(pipeline Pipeline, store Downloader, logger logging.Logger) *Worker {
	return &Worker{pipeline: pipeline, store: store, logger: logger.Named("ingest")}
}

// Handle processes a document.uploaded envelope.  Permanent failures
// (malformed payload, unknown type, disallowed kind) are logged and
// swallowed so the message commits; transient failures propagate for
// redelivery.
func (w *Worker) Handle(ctx context.Context, env *kafka.EventEnvelope) error {
	var payload kafka.DocumentUploadedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		w.logger.Warn("dropping malformed uploaded event",
			logging.String("event_id", env.EventID), logging.Err(err))
		return nil
	}
	if payload.ObjectKey == "" || payload.TypeTag == "" {
		w.logger.Warn("dropping incomplete uploaded event",
			logging.String("event_id", env.EventID),
			logging.String("object_key", payload.ObjectKey))
		return nil
	}

	kind, err := document.ParseFileKind(payload.Kind)
	if err != nil {
		w.logger.Warn("dropping event with unknown file kind",
			logging.String("event_id", env.EventID),
			logging.String("kind", payload.Kind))
		return nil
	}

	data, err := w.store.Download(ctx, payload.ObjectKey)
	if err != nil {
		return err
	}

	doc, err := w.pipeline.ExtractAndValidate(ctx, documents.UploadRequest{
		FileName: path.Base(payload.ObjectKey),
		Kind:     kind,
		TypeTag:  payload.TypeTag,
		ClaimID:  common.ID(payload.ClaimID),
		Data:     data,
	})
	if err != nil {
		if errors.IsValidation(err) {
			w.logger.Warn("dropping unprocessable upload",
				logging.String("event_id", env.EventID),
				logging.String("object_key", payload.ObjectKey),
				logging.Err(err))
			return nil
		}
		return err
	}

	w.logger.Info("stored upload processed",
		logging.String("document_id", doc.ID.String()),
		logging.String("status", string(doc.Status)))
	return nil
}
