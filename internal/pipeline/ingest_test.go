package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/internal/pipeline/pipelinetest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadSheetFromWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Consolidated.xlsx")
	require.NoError(t, pipelinetest.WriteWorkbook(path))

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	require.Equal(t, path, wb.Path())
	require.Equal(t, []string{
		"PR Create", "PO Create", "Order Acknowledgements 1 April ", "PO Release 31", "PO Release 37",
	}, wb.Sheets())

	poa, err := wb.ReadSheet("Order Acknowledgements 1 April ")
	require.NoError(t, err)
	require.Equal(t, []string{"Purchasing Doc.", "BOT/MANUAL/SERVICE PROVIDER", "Month", "Turn around in Days"}, poa.Columns)
	require.Len(t, poa.Rows, 5)
	require.Equal(t, 0.5, poa.Rows[0]["Turn around in Days"])
	require.Equal(t, 1, poa.Rows[1]["Turn around in Days"])
	require.Equal(t, "SERVICE PROVIDER", poa.Rows[4]["BOT/MANUAL/SERVICE PROVIDER"])

	r31, err := wb.ReadSheet("PO Release 31")
	require.NoError(t, err)
	require.Len(t, r31.Rows, 4)
	require.Nil(t, r31.Rows[3]["Created On"])
	require.Equal(t, "2024/04/02", r31.Rows[3]["Date(31)"])
	require.Equal(t, 45001, r31.Rows[0]["Purchasing Doc."])

	// date cells come back as times, text timestamps stay text
	created, ok := r31.Rows[0]["Created On"].(time.Time)
	require.True(t, ok, "got %T", r31.Rows[0]["Created On"])
	require.True(t, created.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2024-04-01 12:00:00", r31.Rows[2]["Created On"])

	sample, err := DeriveTAT(r31, model.DefaultStageTable().Release31.TAT)
	require.NoError(t, err)
	require.Len(t, sample, 3)
	require.InDelta(t, 0, sample[0], 1e-6)
	require.InDelta(t, 2, sample[1], 1e-6)
	require.InDelta(t, 4.5, sample[2], 1e-6)
}

func TestReadSheetMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Consolidated.xlsx")
	require.NoError(t, pipelinetest.WriteWorkbook(path))

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	// sheet names match exactly, trailing space included
	_, err = wb.ReadSheet("Order Acknowledgements 1 April")
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, "Order Acknowledgements 1 April", schemaErr.Sheet)
	require.Empty(t, schemaErr.Column)
}

func TestOpenWorkbookMissingFile(t *testing.T) {
	_, err := OpenWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.ErrorIs(t, err, ErrIO)
}

func TestReadSheetHeadersAndBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.xlsx")
	require.NoError(t, pipelinetest.WriteSheets(path, []pipelinetest.Sheet{{
		Name:   "PR Create",
		Header: []string{" Req Type ", "", "PGr", "PGr"},
		Rows: [][]interface{}{
			{"NB", "x", "P01", "P02"},
			{nil, nil, nil, nil},
			{"ZSER", nil, "P03"},
		},
	}}))

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	rs, err := wb.ReadSheet("PR Create")
	require.NoError(t, err)
	require.Equal(t, []string{" Req Type ", "Unnamed: 1", "PGr", "PGr.1"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	require.Equal(t, "P02", rs.Rows[0]["PGr.1"])
	require.Nil(t, rs.Rows[1]["PGr.1"])
	require.Nil(t, rs.Rows[1]["Unnamed: 1"])
}

func TestHeaderColumns(t *testing.T) {
	require.Equal(t,
		[]string{"A", "A.1", "Unnamed: 2", "A.2", "Unnamed: 4"},
		headerColumns([]string{"A", "A", "", "A", " "}))
}

func TestReadSheetKeepsTextCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.xlsx")
	require.NoError(t, pipelinetest.WriteSheets(path, []pipelinetest.Sheet{{
		Name:   "PR Create",
		Header: []string{"Purchase Req.", "PGr"},
		Rows: [][]interface{}{
			{10001, "001"},
			{10002, "01"},
			{10003, "1"},
		},
	}}))

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	rs, err := wb.ReadSheet("PR Create")
	require.NoError(t, err)
	require.Equal(t, "001", rs.Rows[0]["PGr"])
	require.Equal(t, "01", rs.Rows[1]["PGr"])
	require.Equal(t, "1", rs.Rows[2]["PGr"])
	require.Equal(t, 10001, rs.Rows[0]["Purchase Req."])

	groups, err := Breakdown(rs, "PGr", 0)
	require.NoError(t, err)
	require.Equal(t, model.Breakdown{
		{Label: "001", Count: 1},
		{Label: "01", Count: 1},
		{Label: "1", Count: 1},
	}, groups)
}

func TestReadSheetDateFormattedNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.xlsx")
	f := excelize.NewFile()
	sheet := "PO Release 31"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	builtin, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	code := `dd"."mm"."yyyy`
	custom, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
	require.NoError(t, err)
	decimals, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Builtin", "Custom", "Serial", "Amount", "Flag"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{45383, 45385.5, 45383, 12.5, true}))
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A2", builtin))
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B2", custom))
	require.NoError(t, f.SetCellStyle(sheet, "D2", "D2", decimals))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	rs, err := wb.ReadSheet(sheet)
	require.NoError(t, err)
	row := rs.Rows[0]

	builtinDate, ok := row["Builtin"].(time.Time)
	require.True(t, ok, "got %T", row["Builtin"])
	require.True(t, builtinDate.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))

	customDate, ok := row["Custom"].(time.Time)
	require.True(t, ok, "got %T", row["Custom"])
	require.True(t, customDate.Equal(time.Date(2024, 4, 3, 12, 0, 0, 0, time.UTC)))

	// unstyled serials stay numeric; parseTimestamp still reads them
	require.Equal(t, 45383, row["Serial"])
	require.Equal(t, 12.5, row["Amount"])
	require.Equal(t, true, row["Flag"])
}

func TestRecordSetFromRowsPassesPositions(t *testing.T) {
	var seen []string
	value := func(row, col int, raw string) (interface{}, error) {
		seen = append(seen, fmt.Sprintf("%d,%d=%s", row, col, raw))
		return raw, nil
	}

	rs, err := recordSetFromRows("S", [][]string{{"A", "B"}, {"x"}, {}, {"y", "z"}}, value)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 2)
	require.Equal(t, []string{"1,0=x", "1,1=", "3,0=y", "3,1=z"}, seen)

	_, err = recordSetFromRows("S", [][]string{{"A"}, {"x"}}, func(int, int, string) (interface{}, error) {
		return nil, errors.New("bad cell")
	})
	require.ErrorContains(t, err, "bad cell")
}

func TestIsDateFormatCode(t *testing.T) {
	require.True(t, isDateFormatCode("yyyy-mm-dd"))
	require.True(t, isDateFormatCode(`dd"."mm"."yyyy`))
	require.True(t, isDateFormatCode("[$-409]h:mm AM/PM"))
	require.False(t, isDateFormatCode("#,##0.00"))
	require.False(t, isDateFormatCode(`0.0" days"`))
	require.False(t, isDateFormatCode("[Red]0.00"))
	require.False(t, isDateFormatCode("@"))

	require.True(t, isDateNumFmt(14))
	require.True(t, isDateNumFmt(22))
	require.False(t, isDateNumFmt(2))
}
