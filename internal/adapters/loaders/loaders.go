// Package loaders reads spreadsheet files into loosely typed rows.
package loaders

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions without a loader.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Load picks a loader from the filename extension.
func Load(filename string, r io.Reader) ([]domain.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(r)
	case ".csv":
		return LoadCSV(r)
	}
	return nil, fmt.Errorf("%w: %w %q", apperrors.ErrValidation, ErrUnsupportedFormat, filepath.Ext(filename))
}

// LoadXLSX reads every sheet of a workbook. The first row of each sheet is its
// header; rows of all sheets are concatenated in sheet order.
func LoadXLSX(r io.Reader) ([]domain.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open workbook: %v", apperrors.ErrValidation, err)
	}
	defer func() { _ = f.Close() }()

	var rows []domain.Row
	for _, sheet := range f.GetSheetList() {
		cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		rows = append(rows, tableRows(cells)...)
	}
	return rows, nil
}

// LoadCSV reads a comma or semicolon separated file with a header row.
func LoadCSV(r io.Reader) ([]domain.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if firstLine, _, _ := strings.Cut(text, "\n"); strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		reader.Comma = ';'
	}

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed csv: %v", apperrors.ErrValidation, err)
	}
	return tableRows(cells), nil
}

// tableRows maps cells under the first row's headers. Blank rows and
// headerless columns are skipped.
func tableRows(cells [][]string) []domain.Row {
	if len(cells) == 0 {
		return nil
	}
	headers := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]domain.Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		row := domain.Row{}
		for i, value := range record {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if value = strings.TrimSpace(value); value != "" {
				row[headers[i]] = value
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
