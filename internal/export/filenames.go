package export

import "time"

const fileDateLayout = "20060102"

// WorkbookFilename is the download name of the xlsx export
func WorkbookFilename(now time.Time) string {
	return "invoices_" + now.Format(fileDateLayout) + ".xlsx"
}

// CSVFilename is the download name of the csv export
func CSVFilename(now time.Time) string {
	return "invoices_" + now.Format(fileDateLayout) + ".csv"
}

// BackupFilename is the download name of the json backup
func BackupFilename(now time.Time) string {
	return "invoice_backup_" + now.Format(fileDateLayout) + ".json"
}
