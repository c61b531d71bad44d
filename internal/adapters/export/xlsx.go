package export

import (
	"fmt"
	"io"

	"github.com/ogurasousui/employee-records-api/internal/core/employee"
	"github.com/xuri/excelize/v2"
)

// SheetName は XLSX 出力時のシート名です。
const SheetName = "Employees"

// WriteXLSX は社員名簿を XLSX で書き出します。
func WriteXLSX(w io.Writer, employees []*employee.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	header := make([]interface{}, len(rosterHeader))
	for i, h := range rosterHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return fmt.Errorf("export: apply header style: %w", err)
	}

	for i, e := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.ID, e.FirstName, e.LastName, e.Email}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("export: write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "C", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "D", "D", 32); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
