package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// utf8BOM lets spreadsheet applications detect the encoding
const utf8BOM = "\ufeff"

// WriteCSV writes sheet with a leading BOM
func WriteCSV(w io.Writer, sheet Sheet) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(sheet.Header))
	for _, row := range sheet.Rows {
		record = record[:0]
		for _, cell := range row {
			record = append(record, cellString(cell))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}
