package voucher

import (
	"context"
	"fmt"

	"edulearn/internal/metrics"
	"edulearn/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentLoads = 4

type importer struct {
	loader Loader
	store  BatchInserter
	logger zerolog.Logger
}

// NewImporter creates an importer that reads files through loader.
func NewImporter(loader Loader, store BatchInserter, logger zerolog.Logger) Importer {
	return &importer{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "voucher-importer").Logger(),
	}
}

// Import loads every file concurrently, then validates and stores the records.
// A file that cannot be read fails the whole import before anything is stored.
// Codes repeated across files, or already present in the store, count as duplicates.
func (i *importer) Import(ctx context.Context, files []string) (*model.ImportResult, error) {
	batches := make([]*Batch, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for idx, file := range files {
		g.Go(func() error {
			batch, err := i.loader.Load(gctx, file)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", file, err)
			}
			batches[idx] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		i.logger.Error().Err(err).Msg("voucher import aborted")
		return nil, err
	}

	result := &model.ImportResult{Files: len(files)}
	seen := newCodeSet(0)
	var vouchers []model.Voucher

	for _, batch := range batches {
		result.Invalid += batch.Malformed
		for _, record := range batch.Records {
			if err := record.Validate(); err != nil {
				result.Invalid++
				continue
			}
			if !seen.Add(record.Code) {
				result.Duplicates++
				continue
			}
			vouchers = append(vouchers, *record.ToVoucher())
		}
	}

	inserted, err := i.store.InsertMany(ctx, vouchers)
	if err != nil {
		return nil, err
	}
	result.Inserted = inserted
	result.Duplicates += len(vouchers) - inserted

	metrics.VouchersImported.WithLabelValues("inserted").Add(float64(result.Inserted))
	metrics.VouchersImported.WithLabelValues("duplicate").Add(float64(result.Duplicates))
	metrics.VouchersImported.WithLabelValues("invalid").Add(float64(result.Invalid))

	i.logger.Info().
		Int("files", result.Files).
		Int("inserted", result.Inserted).
		Int("duplicates", result.Duplicates).
		Int("invalid", result.Invalid).
		Msg("voucher import finished")

	return result, nil
}
