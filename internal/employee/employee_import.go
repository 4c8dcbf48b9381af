package employee

import (
	"encoding/csv"
	"io"
	"strings"

	employeeerrors "go-hrms/internal/employee/errors"

	"github.com/xuri/excelize/v2"
)

// importRow is one parsed line of a bulk upload, keyed by the normalized
// header name. Header names follow the export template (first_name, email,
// sick_leave, ...).
type importRow map[string]string

func (r importRow) get(key string) string {
	return strings.TrimSpace(r[key])
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func rowsFromRecords(records [][]string) ([]importRow, error) {
	if len(records) < 2 {
		return nil, employeeerrors.ErrEmptyImportFile
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	rows := make([]importRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := importRow{}
		empty := true
		for i, cell := range rec {
			if i >= len(headers) {
				break
			}
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
			row[headers[i]] = cell
		}
		if !empty {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, employeeerrors.ErrEmptyImportFile
	}
	return rows, nil
}

func parseCSV(r io.Reader) ([]importRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, employeeerrors.ErrUnsupportedFileFormat
	}
	return rowsFromRecords(records)
}

func parseXLSX(r io.Reader) ([]importRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, employeeerrors.ErrUnsupportedFileFormat
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, employeeerrors.ErrEmptyImportFile
	}

	// Data is expected on the first sheet
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, employeeerrors.ErrUnsupportedFileFormat
	}
	return rowsFromRecords(records)
}

// ParseImportFile dispatches on the uploaded file extension.
func ParseImportFile(filename string, r io.Reader) ([]importRow, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return parseCSV(r)
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"),
		strings.HasSuffix(strings.ToLower(filename), ".xls"):
		return parseXLSX(r)
	default:
		return nil, employeeerrors.ErrUnsupportedFileFormat
	}
}
