package import_pkg

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/nicl-arrears/internal/letters"
)

// Store persists prepared batches. DeleteBatch must remove every row saved
// under the batch.
type Store interface {
	CreateBatch(ctx context.Context, source, category string) (int64, error)
	SaveResult(ctx context.Context, batchID int64, row int, rec letters.Record, letter *letters.Letter, comment string) error
	DeleteBatch(ctx context.Context, batchID int64) error
}

// Importer reads an arrears CSV, prepares its letters and stores the batch
type Importer struct {
	store     Store
	reader    CSVReader
	processor *BatchProcessor
}

// NewImporter creates an importer writing to store
func NewImporter(store Store, reader CSVReader, processor *BatchProcessor) *Importer {
	return &Importer{store: store, reader: reader, processor: processor}
}

// ImportSummary reports what an import stored
type ImportSummary struct {
	BatchID int64
	BatchStats
}

// Import processes the CSV at path as one batch. A batch is stored whole or
// not at all: when a row fails to save, the rows already written are
// removed with the batch.
func (im *Importer) Import(ctx context.Context, path string) (*ImportSummary, error) {
	records, err := im.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("Importing %d rows from %s", len(records), path)

	results, stats, err := im.processor.Process(ctx, records)
	if err != nil {
		return nil, err
	}

	batchID, err := im.store.CreateBatch(ctx, filepath.Base(path), im.processor.Category())
	if err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	for _, r := range results {
		if err := im.store.SaveResult(ctx, batchID, r.Row, r.Record, r.Letter, r.Comment()); err != nil {
			im.discard(ctx, batchID)
			return nil, fmt.Errorf("failed to save row %d: %w", r.Row, err)
		}
		if r.Row%1000 == 0 {
			log.Printf("Stored %d rows...", r.Row)
		}
	}

	log.Printf("Import complete: batch %d, %d letters prepared, %d rows rejected", batchID, stats.Prepared, stats.Rejected)
	return &ImportSummary{BatchID: batchID, BatchStats: stats}, nil
}

// discard drops a partly stored batch. It runs even when ctx is already
// cancelled.
func (im *Importer) discard(ctx context.Context, batchID int64) {
	if err := im.store.DeleteBatch(context.WithoutCancel(ctx), batchID); err != nil {
		log.Printf("Failed to remove incomplete batch %d: %v", batchID, err)
		return
	}
	log.Printf("Removed incomplete batch %d", batchID)
}
