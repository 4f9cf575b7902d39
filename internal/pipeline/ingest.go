package pipeline

import (
	"fmt"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/pkg/utils"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ------------------- Workbook Ingestion -------------------

// Workbook is the consolidated procurement workbook, opened once per run.
type Workbook struct {
	path     string
	file     *excelize.File
	sheets   map[string]bool
	date1904 bool
}

// OpenWorkbook opens an .xlsx file for reading.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, ioError("open workbook", path, err)
	}

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	wb := &Workbook{path: path, file: f, sheets: sheets}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string { return w.path }

// Sheets returns the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// ReadSheet loads one sheet. The first row is the header. Cells are read
// unformatted and typed by how they are stored: text stays text, numbers
// become int or float64 and date-formatted numbers become time.Time.
func (w *Workbook) ReadSheet(name string) (model.RecordSet, error) {
	if !w.sheets[name] {
		return model.RecordSet{}, &SchemaError{Sheet: name}
	}

	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.RecordSet{}, ioError("read sheet", name, err)
	}

	cells := &cellReader{
		file:       w.file,
		sheet:      name,
		date1904:   w.date1904,
		dateStyles: make(map[int]bool),
	}
	rs, err := recordSetFromRows(name, rows, cells.value)
	if err != nil {
		return model.RecordSet{}, ioError("read sheet", name, err)
	}
	return rs, nil
}

// cellFunc types the raw text of the cell at zero-based row and col.
type cellFunc func(row, col int, raw string) (interface{}, error)

func recordSetFromRows(sheet string, rows [][]string, value cellFunc) (model.RecordSet, error) {
	rs := model.RecordSet{Sheet: sheet}
	if len(rows) == 0 {
		return rs, nil
	}

	rs.Columns = headerColumns(rows[0])
	for r, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec := make(model.GenericRecord, len(rs.Columns))
		for i, col := range rs.Columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			v, err := value(r+1, i, cell)
			if err != nil {
				return model.RecordSet{}, err
			}
			rec[col] = v
		}
		rs.Rows = append(rs.Rows, rec)
	}
	return rs, nil
}

// headerColumns keeps header text exactly as written, names blank cells
// "Unnamed: N" and suffixes repeats with ".1", ".2" so every column stays
// addressable.
func headerColumns(header []string) []string {
	seen := make(map[string]int)
	cols := make([]string, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		cols[i] = name
	}
	return cols
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ------------------- Cell Typing -------------------

// cellReader types cells of one sheet from their stored type and style.
type cellReader struct {
	file       *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool // style index -> date number format
}

func (c *cellReader) value(row, col int, raw string) (interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	typ, err := c.file.GetCellType(c.sheet, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw, nil
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		for _, layout := range isoDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return raw, nil
	}

	v := utils.ParseValue(raw)
	serial, ok := utils.Numeric(v)
	if !ok {
		return v, nil
	}
	isDate, err := c.dateStyled(ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	if !isDate {
		return v, nil
	}
	t, err := excelize.ExcelDateToTime(serial, c.date1904)
	if err != nil {
		return v, nil
	}
	return t, nil
}

var isoDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (c *cellReader) dateStyled(ref string) (bool, error) {
	idx, err := c.file.GetCellStyle(c.sheet, ref)
	if err != nil || idx == 0 {
		return false, err
	}
	if isDate, ok := c.dateStyles[idx]; ok {
		return isDate, nil
	}
	style, err := c.file.GetStyle(idx)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	c.dateStyles[idx] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format id renders a date
// or time.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code has date or time
// tokens outside quoted literals, escapes and [..] sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case strings.IndexByte("ymdhsYMDHS", ch) >= 0:
			return true
		}
	}
	return false
}
