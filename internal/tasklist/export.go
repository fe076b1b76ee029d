package tasklist

import (
	"bufio"
	"bytes"
	"io"

	"taskgrid/internal/models"
)

// ExportFilename is the download name offered for CSV exports.
const ExportFilename = "exported_data.csv"

// ExportContentType is the media type of ExportCSV output.
const ExportContentType = "text/csv; charset=utf-8"

const (
	bom       = "\uFEFF"
	separator = ";"
)

var exportHeader = []string{"Task Name", "Task Type", "Responsible", "Start Date", "End Date"}

// WriteCSV writes tasks in spreadsheet-friendly CSV: a UTF-8 BOM, a header
// and one line per task with every field quoted and joined by ';'.
//
// Quotes and semicolons inside values are written verbatim. Downstream
// consumers depend on this exact byte layout.
func WriteCSV(w io.Writer, tasks []models.Task) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(bom)
	for i, h := range exportHeader {
		if i > 0 {
			bw.WriteString(separator)
		}
		bw.WriteString(h)
	}
	bw.WriteByte('\n')

	for _, t := range tasks {
		fields := [...]string{t.TaskName, t.TaskType, t.Responsible, t.StartDate, t.EndDate}
		for i, f := range fields {
			if i > 0 {
				bw.WriteString(separator)
			}
			bw.WriteByte('"')
			bw.WriteString(f)
			bw.WriteByte('"')
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// ExportCSV returns the WriteCSV output as bytes.
func ExportCSV(tasks []models.Task) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail.
	_ = WriteCSV(&buf, tasks)
	return buf.Bytes()
}
