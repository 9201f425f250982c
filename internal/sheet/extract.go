package sheet

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Extractor walks every worksheet of a workbook and produces availability
// entries. All parsing problems below workbook level are skips, not errors.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// NewExtractor builds an extractor; zero-valued config fields fall back to
// the rota template defaults.
func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg.withDefaults(), logger: logger}
}

// ExtractWorkbook processes all worksheets in order and returns the
// extracted entries, preserving row order within each sheet.
func (e *Extractor) ExtractWorkbook(f *excelize.File) []Entry {
	var entries []Entry
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			e.logger.Warn("skipping unreadable sheet",
				zap.String("sheet", name),
				zap.Error(err))
			continue
		}

		date, ok := anchorDate(rows, e.cfg.HeaderRow)
		if !ok {
			e.logger.Warn("skipping sheet without a week date on the header row",
				zap.String("sheet", name),
				zap.Int("header_row", e.cfg.HeaderRow))
			continue
		}

		entries = append(entries, e.extractRows(name, date, rows)...)
	}
	return entries
}

func (e *Extractor) extractRows(sheetName string, date time.Time, rows [][]string) []Entry {
	var entries []Entry
	for i := e.cfg.DataStartRow - 1; i < len(rows); i++ {
		row := rows[i]

		name := cellAt(row, e.cfg.NameColumn)
		if name == "" {
			continue
		}

		rng, ok := e.rowTimeRange(sheetName, i+1, row)
		if !ok {
			// Blank or comment row; the rota sheets are full of them.
			continue
		}

		entries = append(entries, Entry{
			Sheet: sheetName,
			Date:  date,
			Name:  name,
			Range: rng,
		})
	}
	return entries
}

// rowTimeRange tries the combined-range cell first (probing the configured
// time columns in order for the first non-empty one), then falls back to
// independent start/end cells in the first two time columns.
func (e *Extractor) rowTimeRange(sheetName string, rowNo int, row []string) (TimeRange, bool) {
	for _, col := range e.cfg.TimeColumns {
		raw := cellAt(row, col)
		if raw == "" {
			continue
		}
		rng, err := ParseRange(raw)
		if err == nil {
			return rng, true
		}
		e.logger.Debug("combined range parse failed, trying separate cells",
			zap.String("sheet", sheetName),
			zap.Int("row", rowNo),
			zap.String("cell", raw))
		break
	}

	start, okStart := ParseClock(cellAt(row, e.cfg.TimeColumns[0]))
	end, okEnd := ParseClock(cellAt(row, e.cfg.TimeColumns[1]))
	if !okStart || !okEnd {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
