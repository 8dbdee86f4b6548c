package catalogsvc

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

// Column layout of an import file: four fixed product columns followed by
// up to three variant triples.
const (
	colName = iota
	colTagline
	colDescription
	colCategory
	firstVariantCol = 4
	variantColWidth = 3
	maxCSVVariants  = 3
)

// RowError records one rejected import row.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a bulk import: how many rows were accepted and
// which were skipped.
type ImportReport struct {
	Imported int        `json:"imported"`
	Skipped  []RowError `json:"skipped,omitempty"`
}

// ImportCSV bulk-loads products from a separator-delimited file. The first
// row is a header and is skipped. Malformed rows are reported rather than
// aborting the import, but all accepted rows land in a single atomic batch:
// either every valid product is written or none is.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	cr := csv.NewReader(r)
	sep := s.rt.Config().CSVSeparator
	if sep != "" {
		cr.Comma = rune(sep[0])
	}
	cr.FieldsPerRecord = -1

	report := &ImportReport{}
	var products []*entity.Product
	now := time.Now()

	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped = append(report.Skipped, RowError{Row: row, Reason: err.Error()})
			continue
		}
		if row == 0 {
			continue // header
		}
		p, err := parseProductRow(record, s.rt.Config().MaxVariantQuantity)
		if err != nil {
			report.Skipped = append(report.Skipped, RowError{Row: row, Reason: err.Error()})
			continue
		}
		p.Touch(now)
		products = append(products, p)
	}

	if len(products) == 0 {
		return report, nil
	}

	// Assign every key up front so a generator failure leaves the store
	// untouched.
	for _, p := range products {
		if err := s.rt.Assigner().Assign(p.IdentityTargets()...); err != nil {
			return nil, err
		}
	}

	batch := s.rt.DB().NewBatch()
	for _, p := range products {
		raw, err := json.Marshal(p)
		if err != nil {
			batch.Close()
			return nil, err
		}
		if err := batch.Set(productKey(p.ProductID), raw, nil); err != nil {
			batch.Close()
			return nil, err
		}
	}
	if err := s.rt.DB().CommitBatch(ctx, batch); err != nil {
		return nil, err
	}
	report.Imported = len(products)
	s.logger.Info("csv import finished",
		logpkg.Int("imported", report.Imported),
		logpkg.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

func parseProductRow(record []string, maxQty int) (*entity.Product, error) {
	if len(record) < firstVariantCol+variantColWidth {
		return nil, fmt.Errorf("expected at least %d columns, got %d", firstVariantCol+variantColWidth, len(record))
	}
	p := &entity.Product{
		Name:        strings.TrimSpace(record[colName]),
		Tagline:     strings.TrimSpace(record[colTagline]),
		Description: strings.TrimSpace(record[colDescription]),
		Category:    strings.TrimSpace(record[colCategory]),
		Available:   true,
	}
	if p.Name == "" {
		return nil, fmt.Errorf("name is empty")
	}

	for i := 0; i < maxCSVVariants; i++ {
		base := firstVariantCol + i*variantColWidth
		if base+variantColWidth > len(record) {
			break
		}
		typ := strings.TrimSpace(record[base])
		if typ == "" {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[base+1]), 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("variant %q: bad price %q", typ, record[base+1])
		}
		minQty, err := strconv.Atoi(strings.TrimSpace(record[base+2]))
		if err != nil || minQty < 1 {
			return nil, fmt.Errorf("variant %q: bad min quantity %q", typ, record[base+2])
		}
		p.Variants = append(p.Variants, entity.Variant{
			Type:        typ,
			Price:       price,
			MinQuantity: minQty,
			MaxQuantity: maxQty,
		})
	}
	if len(p.Variants) == 0 {
		return nil, fmt.Errorf("no valid variants")
	}
	return p, nil
}
