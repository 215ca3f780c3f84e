package voucher

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"edulearn/internal/model"

	"github.com/klauspost/pgzip"
	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped voucher files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based voucher loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "voucher-loader").Logger(),
	}
}

// Load reads a gzipped voucher file from the local file system.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Batch, error) {
	l.logger.Info().Str("file", filePath).Msg("loading voucher file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open voucher file")
		return nil, fmt.Errorf("failed to open voucher file %s: %w", filePath, err)
	}
	defer file.Close()

	batch, err := decodeBatch(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read voucher file")
		return nil, fmt.Errorf("failed to read voucher file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("records", len(batch.Records)).
		Int("malformed", batch.Malformed).
		Msg("voucher file loaded successfully")

	return batch, nil
}

// decodeBatch reads one JSON object per line from a gzip stream.
// Blank lines are skipped and undecodable lines are counted, not fatal.
func decodeBatch(ctx context.Context, r io.Reader) (*Batch, error) {
	gzipReader, err := pgzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	batch := &Batch{}
	lineCount := 0
	for scanner.Scan() {
		if lineCount%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		lineCount++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record model.VoucherRequest
		if err := json.Unmarshal(line, &record); err != nil {
			batch.Malformed++
			continue
		}
		batch.Records = append(batch.Records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return batch, nil
}
