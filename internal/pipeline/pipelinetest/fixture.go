// Package pipelinetest builds small consolidated workbooks and dashboard
// pages for tests.
//
// The default workbook yields these figures:
//
//	PR Create   4 rows
//	PO Create   3 rows, conversion 75
//	POA         5 rows, TAT [0.5 1 1.5 3 5], BOT 3 / MANUAL 1 / SERVICE PROVIDER 1
//	Release 31  4 rows, TAT [0 2 4.5], one row without a creation date
//	Release 37  3 rows, TAT [0 1 4]
package pipelinetest

import (
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet is the header and rows of one worksheet.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// DashboardPage is a minimal page carrying the data block markers.
const DashboardPage = `<html>
<body>
    <script>
        const dashboardData = {"placeholder": true};

        // Initialize dashboard
        render(dashboardData);
    </script>
</body>
</html>
`

func day(d, h int) time.Time {
	return time.Date(2024, time.April, d, h, 0, 0, 0, time.UTC)
}

// Sheets returns the default workbook content.
func Sheets() []Sheet {
	return []Sheet{
		{
			Name:   "PR Create",
			Header: []string{"Purchase Req.", "Req Type", "PGr", "Month", "S"},
			Rows: [][]interface{}{
				{10001, "NB", "P01", "April", "B"},
				{10002, "NB", "P02", "April", "B"},
				{10003, "ZSER", "P01", "May", "A"},
				{10004, "NB", "P01", "May", "B"},
			},
		},
		{
			Name:   "PO Create",
			Header: []string{"Purchasing Doc.", "Type Description", "PGr"},
			Rows: [][]interface{}{
				{45001, "Standard PO", "P01"},
				{45002, "Standard PO", "P02"},
				{45003, "Service PO", "P01"},
			},
		},
		{
			Name:   "Order Acknowledgements 1 April ",
			Header: []string{"Purchasing Doc.", "BOT/MANUAL/SERVICE PROVIDER", "Month", "Turn around in Days"},
			Rows: [][]interface{}{
				{45001, "BOT", "April", 0.5},
				{45002, "BOT", "April", 1},
				{45003, "MANUAL", "April", 1.5},
				{45004, "BOT", "May", 3},
				{45005, "SERVICE PROVIDER", "May", 5},
			},
		},
		{
			Name:   "PO Release 31",
			Header: []string{"Purchasing Doc.", "Created On", "Date(31)"},
			Rows: [][]interface{}{
				{45001, day(1, 0), "2024/04/01"},
				{45002, day(1, 0), "2024/04/03"},
				{45003, "2024-04-01 12:00:00", "2024/04/06"},
				{45004, nil, "2024/04/02"},
			},
		},
		{
			Name:   "PO Release 37",
			Header: []string{"Purchasing Doc.", "Created On", "Date(37)", "Purchasing Group"},
			Rows: [][]interface{}{
				{45001, "2024-04-01", "2024/04/01", "G1"},
				{45002, "2024-04-01", "2024/04/02", "G1"},
				{45003, "2024-04-01", "2024/04/05", "G2"},
			},
		},
	}
}

// WriteWorkbook saves the default workbook to path.
func WriteWorkbook(path string) error {
	return WriteSheets(path, Sheets())
}

// WriteSheets saves the given sheets to path as an .xlsx workbook.
func WriteSheets(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}

		if err := setRow(f, sheet.Name, 1, toCells(sheet.Header)); err != nil {
			return err
		}
		for r, row := range sheet.Rows {
			if err := setRow(f, sheet.Name, r+2, row); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// WriteDashboard saves DashboardPage to path.
func WriteDashboard(path string) error {
	return os.WriteFile(path, []byte(DashboardPage), 0644)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for c, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("%s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(header []string) []interface{} {
	out := make([]interface{}, len(header))
	for i, h := range header {
		out[i] = h
	}
	return out
}
