package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, cells map[string]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for ref, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, value))
	}
	return f
}

func TestExtractWorkbookSingleRow(t *testing.T) {
	f := buildWorkbook(t, map[string]interface{}{
		"B22": "Week of 03/06/2024",
		"B24": "Alice Smith",
		"D24": "08:00 - 16:00",
	})
	defer f.Close()

	entries := NewExtractor(Config{}, nil).ExtractWorkbook(f)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Sheet1", entry.Sheet)
	assert.Equal(t, "Alice Smith", entry.Name)
	assert.Equal(t, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), entry.Date)
	assert.Equal(t, "08:00 - 16:00", entry.Range.String())
}

func TestExtractWorkbookSkipsSheetWithoutDate(t *testing.T) {
	f := buildWorkbook(t, map[string]interface{}{
		"B24": "Alice Smith",
		"D24": "08:00 - 16:00",
	})
	defer f.Close()

	entries := NewExtractor(Config{}, nil).ExtractWorkbook(f)
	assert.Empty(t, entries)
}

func TestExtractWorkbookProbesTimeColumns(t *testing.T) {
	f := buildWorkbook(t, map[string]interface{}{
		"B22": "w/c 10/06/2024",
		"B24": "Bob",
		"F24": "9:00 AM - 5:00 PM",
		"B25": "Carol",
		"E25": "10:00–14:00",
	})
	defer f.Close()

	entries := NewExtractor(Config{}, nil).ExtractWorkbook(f)
	require.Len(t, entries, 2)
	assert.Equal(t, "09:00 - 17:00", entries[0].Range.String())
	assert.Equal(t, "10:00 - 14:00", entries[1].Range.String())
}

func TestExtractWorkbookSeparateCellFallback(t *testing.T) {
	f := buildWorkbook(t, map[string]interface{}{
		"B22": "03/06/2024",
		"B24": "Dan",
		"D24": "08:00",
		"E24": "4:30 PM",
	})
	defer f.Close()

	entries := NewExtractor(Config{}, nil).ExtractWorkbook(f)
	require.Len(t, entries, 1)
	assert.Equal(t, "08:00 - 16:30", entries[0].Range.String())
}

func TestExtractWorkbookSkipsUnparseableRows(t *testing.T) {
	f := buildWorkbook(t, map[string]interface{}{
		"B22": "03/06/2024",
		"B24": "Eve",
		"D24": "holiday",
		"B25": "Frank", // no time cells at all
		"D26": "08:00 - 16:00", // no name
	})
	defer f.Close()

	entries := NewExtractor(Config{}, nil).ExtractWorkbook(f)
	assert.Empty(t, entries)
}

func TestExtractWorkbookMultipleSheets(t *testing.T) {
	f := buildWorkbook(t, map[string]interface{}{
		"B22": "03/06/2024",
		"B24": "Alice Smith",
		"D24": "08:00 - 16:00",
	})
	defer f.Close()

	_, err := f.NewSheet("Week2")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Week2", "C22", "week of 10/06/2024"))
	require.NoError(t, f.SetCellValue("Week2", "B24", "Alice Smith"))
	require.NoError(t, f.SetCellValue("Week2", "D24", "09:00 - 17:00"))

	entries := NewExtractor(Config{}, nil).ExtractWorkbook(f)
	require.Len(t, entries, 2)
	assert.Equal(t, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), entries[0].Date)
	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), entries[1].Date)
}

func TestExtractWorkbookCustomLayout(t *testing.T) {
	f := buildWorkbook(t, map[string]interface{}{
		"A1": "rota 03/06/2024",
		"B3": "Grace",
		"C3": "08:00 - 12:00",
	})
	defer f.Close()

	cfg := Config{HeaderRow: 1, DataStartRow: 3, NameColumn: 1, TimeColumns: []int{2, 3}}
	entries := NewExtractor(cfg, nil).ExtractWorkbook(f)
	require.Len(t, entries, 1)
	assert.Equal(t, "Grace", entries[0].Name)
	assert.Equal(t, "08:00 - 12:00", entries[0].Range.String())
}
