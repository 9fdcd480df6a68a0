// Package worker mirrors records from the primary store into a secondary
// one. It is driven by record-created messages, with a periodic full scan to
// catch anything a lost message left behind.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"endurowallet/internal/core"
	"endurowallet/internal/events"
	"endurowallet/internal/store"
)

// Source is the primary store the worker reads from.
type Source interface {
	Get(ctx context.Context, userID string, kind core.Kind, recordID string) (store.Document, error)
	ListAll(ctx context.Context, kind core.Kind) (map[string][]store.Document, error)
}

// Mirror is the secondary store the worker writes to. AppendWithID keeps
// the primary store's record ids; Has makes redelivery idempotent.
type Mirror interface {
	AppendWithID(ctx context.Context, userID string, kind core.Kind, id string, body json.RawMessage) (store.Document, error)
	Has(ctx context.Context, kind core.Kind, id string) (bool, error)
}

// MirrorWorker copies records from Source to Mirror.
type MirrorWorker struct {
	source    Source
	mirror    Mirror
	batchSize int
}

// NewMirrorWorker creates a mirror worker. batchSize bounds how many
// records one full scan will copy per kind.
func NewMirrorWorker(source Source, mirror Mirror, batchSize int) *MirrorWorker {
	if batchSize < 1 {
		batchSize = 10
	}
	return &MirrorWorker{
		source:    source,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleRecordCreated processes one record-created message: read the record
// from the primary store and append it to the mirror unless it is already
// there.
func (w *MirrorWorker) HandleRecordCreated(ctx context.Context, msg *events.RecordCreatedMessage) error {
	slog.InfoContext(ctx, "Mirroring record",
		"user_id", msg.UserID,
		"kind", msg.Kind,
		"record_id", msg.RecordID)

	doc, err := w.source.Get(ctx, msg.UserID, msg.Kind, msg.RecordID)
	if err != nil {
		return fmt.Errorf("get record from source: %w", err)
	}

	exists, err := w.mirror.Has(ctx, msg.Kind, msg.RecordID)
	if err != nil {
		return fmt.Errorf("check mirror: %w", err)
	}
	if exists {
		slog.InfoContext(ctx, "Record already mirrored", "record_id", msg.RecordID)
		return nil
	}

	if _, err := w.mirror.AppendWithID(ctx, msg.UserID, msg.Kind, msg.RecordID, doc.Body); err != nil {
		return fmt.Errorf("append record to mirror: %w", err)
	}

	return nil
}

// FullScan walks every financial record kind and mirrors records missing
// from the secondary store. This is the backup path for lost messages; it
// copies at most batchSize records per kind per call.
func (w *MirrorWorker) FullScan(ctx context.Context) error {
	for _, kind := range core.Kinds() {
		if err := w.scanKind(ctx, kind); err != nil {
			return fmt.Errorf("scan %s: %w", kind, err)
		}
	}
	return nil
}

func (w *MirrorWorker) scanKind(ctx context.Context, kind core.Kind) error {
	partitions, err := w.source.ListAll(ctx, kind)
	if err != nil {
		return fmt.Errorf("list source records: %w", err)
	}

	copied := 0
	for userID, docs := range partitions {
		for _, doc := range docs {
			if copied >= w.batchSize {
				slog.InfoContext(ctx, "Scan batch limit reached", "kind", kind, "copied", copied)
				return nil
			}
			exists, err := w.mirror.Has(ctx, kind, doc.ID)
			if err != nil {
				return fmt.Errorf("check mirror: %w", err)
			}
			if exists {
				continue
			}
			if _, err := w.mirror.AppendWithID(ctx, userID, kind, doc.ID, doc.Body); err != nil {
				slog.ErrorContext(ctx, "Mirror append failed",
					"kind", kind, "record_id", doc.ID, "error", err)
				continue
			}
			copied++
		}
	}

	if copied > 0 {
		slog.InfoContext(ctx, "Scan mirrored records", "kind", kind, "copied", copied)
	}
	return nil
}
