package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes both sheets of t as one workbook
func WriteXLSX(w io.Writer, t Tabular) error {
	file := excelize.NewFile()
	defer file.Close()

	// The default sheet becomes the invoice sheet
	if err := file.SetSheetName(file.GetSheetName(0), t.Invoices.Name); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if _, err := file.NewSheet(t.Items.Name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", t.Items.Name, err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for _, sheet := range []Sheet{t.Invoices, t.Items} {
		if err := fillSheet(file, sheet, headerStyle); err != nil {
			return err
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillSheet(file *excelize.File, sheet Sheet, headerStyle int) error {
	header := make([]interface{}, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := file.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to set header of %s: %w", sheet.Name, err)
	}

	last, err := excelize.CoordinatesToCellName(len(sheet.Header), 1)
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := file.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to set row %d of %s: %w", i+2, sheet.Name, err)
		}
	}
	return nil
}
