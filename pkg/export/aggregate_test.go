package export

import (
	"testing"
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryWriter collects rows for assertions.
type memoryWriter struct {
	Header []string
	Rows   [][]interface{}
}

func (w *memoryWriter) WriteHeader(columns []string) error {
	w.Header = columns
	return nil
}

func (w *memoryWriter) WriteRow(values []interface{}) error {
	w.Rows = append(w.Rows, values)
	return nil
}

func acquired(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 0, 0, 0, 0, time.Local)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "Office Equipment", NormalizeLabel("  Office   Equipment "))
	assert.Equal(t, "Laptop", NormalizeLabel("Laptop"))
	assert.Equal(t, "Uncategorized", NormalizeLabel(""))
	assert.Equal(t, "Uncategorized", NormalizeLabel("   "))
}

func TestAggregate(t *testing.T) {
	assets := []awmodel.Asset{
		{Type: "IT", Category: "Laptop", AcquiredAt: acquired(2025, time.March)},
		{Type: "IT", Category: "Laptop", AcquiredAt: acquired(2025, time.March)},
		{Type: "IT", Category: "Laptop", AcquiredAt: acquired(2025, time.January)},
		{Type: "IT", Category: "Monitor", AcquiredAt: acquired(2025, time.March)},
		{Type: "Furniture", Category: "Desk", AcquiredAt: acquired(2024, time.November)},
		// Ragged labels group with their normalized form.
		{Type: " IT ", Category: "Laptop", AcquiredAt: acquired(2025, time.March)},
		{Type: "IT", Category: "", AcquiredAt: acquired(2025, time.March)},
	}

	rows := Aggregate(assets)

	require.Equal(t, []Row{
		{Type: "Furniture", Category: "Desk", Year: 2024, Month: time.November, Count: 1},
		{Type: "IT", Category: "Laptop", Year: 2025, Month: time.January, Count: 1},
		{Type: "IT", Category: "Laptop", Year: 2025, Month: time.March, Count: 3},
		{Type: "IT", Category: "Monitor", Year: 2025, Month: time.March, Count: 1},
		{Type: "IT", Category: "Uncategorized", Year: 2025, Month: time.March, Count: 1},
	}, rows)
}

func TestAggregateIsDeterministic(t *testing.T) {
	assets := []awmodel.Asset{
		{Type: "B", Category: "x", AcquiredAt: acquired(2025, time.May)},
		{Type: "A", Category: "y", AcquiredAt: acquired(2025, time.May)},
		{Type: "A", Category: "x", AcquiredAt: acquired(2024, time.May)},
		{Type: "A", Category: "x", AcquiredAt: acquired(2025, time.April)},
	}

	first := Aggregate(assets)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(assets))
	}
}

func TestWriteAssetSummary(t *testing.T) {
	assets := []awmodel.Asset{
		{Type: "IT", Category: "Laptop", AcquiredAt: acquired(2025, time.March)},
		{Type: "IT", Category: "Laptop", AcquiredAt: acquired(2025, time.March)},
	}

	w := &memoryWriter{}
	require.NoError(t, WriteAssetSummary(w, assets))

	assert.Equal(t, []string{"Type", "Category", "Year", "Month", "Count"}, w.Header)
	require.Len(t, w.Rows, 1)
	assert.Equal(t, []interface{}{"IT", "Laptop", 2025, "March", 2}, w.Rows[0])
}

func TestWriteAssetSummaryEmpty(t *testing.T) {
	w := &memoryWriter{}
	require.NoError(t, WriteAssetSummary(w, nil))

	assert.Equal(t, []string{"Type", "Category", "Year", "Month", "Count"}, w.Header)
	assert.Empty(t, w.Rows)
}
