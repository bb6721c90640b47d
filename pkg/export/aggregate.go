// Package export builds the grouped asset summary handed to a spreadsheet
// writer. It is a stateless transform; the writing itself is delegated to a
// RowWriter implementation.
package export

import (
	"sort"
	"strings"
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
)

// Row is one line of the summary: assets of a type and category acquired in
// a given month.
type Row struct {
	Type     string
	Category string
	Year     int
	Month    time.Month
	Count    int
}

// RowWriter receives the assembled summary. The xlsx adapter implements it;
// tests use an in-memory one.
type RowWriter interface {
	WriteHeader(columns []string) error
	WriteRow(values []interface{}) error
}

// NormalizeLabel is the one normalization applied to grouping labels, the
// same one display code uses, so grouped rows and displayed values can never
// disagree. Blank labels group under "Uncategorized".
func NormalizeLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "Uncategorized"
	}

	return s
}

// Aggregate groups assets by type, then category, then acquisition
// year/month, and returns counted rows in a stable order.
func Aggregate(assets []awmodel.Asset) []Row {
	type groupKey struct {
		assetType string
		category  string
		year      int
		month     time.Month
	}

	counts := make(map[groupKey]int)
	for _, asset := range assets {
		key := groupKey{
			assetType: NormalizeLabel(asset.Type),
			category:  NormalizeLabel(asset.Category),
			year:      asset.AcquiredAt.Year(),
			month:     asset.AcquiredAt.Month(),
		}
		counts[key]++
	}

	rows := make([]Row, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, Row{
			Type:     key.assetType,
			Category: key.category,
			Year:     key.year,
			Month:    key.month,
			Count:    count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Type != b.Type:
			return a.Type < b.Type
		case a.Category != b.Category:
			return a.Category < b.Category
		case a.Year != b.Year:
			return a.Year < b.Year
		default:
			return a.Month < b.Month
		}
	})

	return rows
}

var summaryColumns = []string{"Type", "Category", "Year", "Month", "Count"}

// WriteAssetSummary aggregates assets and hands the rows to w.
func WriteAssetSummary(w RowWriter, assets []awmodel.Asset) error {
	if err := w.WriteHeader(summaryColumns); err != nil {
		return err
	}

	for _, row := range Aggregate(assets) {
		values := []interface{}{row.Type, row.Category, row.Year, row.Month.String(), row.Count}
		if err := w.WriteRow(values); err != nil {
			return err
		}
	}

	return nil
}
