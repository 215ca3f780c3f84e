package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"edulearn/internal/model"

	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
)

// Generates sample voucher import files.
// batch1 and batch2 both contain WELCOME10, so the second occurrence is
// reported as a duplicate. batch2 also carries one malformed line.
func main() {
	dataDir := "data/vouchers"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	limit := func(n int) *int { return &n }
	minOrder := decimal.NewFromInt(200000)
	expires := time.Now().AddDate(0, 3, 0).UTC().Truncate(time.Second)

	files := map[string][]model.VoucherRequest{
		"batch1.jsonl.gz": {
			{Code: "WELCOME10", DiscountPercent: 10},
			{Code: "GOLANG25", DiscountPercent: 25, CourseIDs: []int64{1, 2}, UsageLimit: limit(100)},
			{Code: "SUMMER-50", DiscountPercent: 50, MinOrderValue: &minOrder, ExpiresAt: &expires},
		},
		"batch2.jsonl.gz": {
			{Code: "WELCOME10", DiscountPercent: 10},
			{Code: "FREE_ONE", DiscountPercent: 100, UsageLimit: limit(1)},
			{Code: "STUDENT15", DiscountPercent: 15, ExpiresAt: &expires},
		},
	}

	for filename, vouchers := range files {
		filePath := filepath.Join(dataDir, filename)

		malformed := filename == "batch2.jsonl.gz"
		if err := createVoucherFile(filePath, vouchers, malformed); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d vouchers\n", filePath, len(vouchers))
	}

	fmt.Println("\nImport with:")
	fmt.Println("  VOUCHER_IMPORT_FILES=data/vouchers/batch1.jsonl.gz,data/vouchers/batch2.jsonl.gz")
}

func createVoucherFile(filePath string, vouchers []model.VoucherRequest, malformed bool) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := pgzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, v := range vouchers {
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to write voucher: %w", err)
		}
	}

	if malformed {
		if _, err := fmt.Fprintln(gzipWriter, `{"code": "BROKEN`); err != nil {
			return fmt.Errorf("failed to write malformed line: %w", err)
		}
	}

	return nil
}
