// Package wordfile reads word lists from spreadsheet and CSV files.
package wordfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupported is returned for file types other than .xlsx and .csv.
var ErrUnsupported = errors.New("unsupported file type (want .xlsx or .csv)")

// Options selects where the words are in the file.
type Options struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string
	// Column is the zero-based column holding the word.
	Column int
	// SkipHeader drops the first row.
	SkipHeader bool
}

// DefaultOptions reads the first column of the first sheet, header included.
func DefaultOptions() Options {
	return Options{}
}

// Read returns the distinct, trimmed, non-empty words of the file at path in
// file order.
func Read(path string, opts Options) ([]string, error) {
	if opts.Column < 0 {
		return nil, fmt.Errorf("invalid column %d", opts.Column)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(path, opts.Sheet)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, ErrUnsupported
	}
	if err != nil {
		return nil, err
	}

	if opts.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	return collect(rows, opts.Column), nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func collect(rows [][]string, column int) []string {
	seen := make(map[string]struct{})
	words := make([]string, 0, len(rows))
	for _, row := range rows {
		if column >= len(row) {
			continue
		}
		w := strings.TrimSpace(row[column])
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
