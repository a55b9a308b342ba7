package cohort

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Extensions are the supported table formats in lookup order.
var Extensions = []string{".csv", ".xlsx"}

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// ErrNoTable is returned when no file exists for a table.
var ErrNoTable = errors.New("table not found")

// table is a parsed input table.
type table struct {
	path   string
	header map[string]int
	rows   [][]string
}

// findTable returns the first existing file name+ext in dir.
func findTable(dir, name string) (string, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s in %s: %w", name, dir, ErrNoTable)
}

// readTable reads a csv or xlsx table. The first row is the header.
func readTable(dir, name string) (*table, error) {
	path, err := findTable(dir, name)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	switch filepath.Ext(path) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty table", path)
	}
	t := &table{
		path:   path,
		header: make(map[string]int, len(rows[0])),
	}
	for i, h := range rows[0] {
		t.header[strings.TrimSpace(h)] = i
	}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// readXLSX reads the first sheet of a workbook.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func (t *table) has(column string) bool {
	_, ok := t.header[column]
	return ok
}

// column parses a numeric column.
func (t *table) column(name string) ([]float64, error) {
	j, ok := t.header[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", t.path, ErrMissingColumn, name)
	}
	v := make([]float64, len(t.rows))
	for i, row := range t.rows {
		if j >= len(row) {
			return nil, fmt.Errorf("%s: row %d: empty %q", t.path, i+2, name)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", t.path, i+2, err)
		}
		v[i] = f
	}
	return v, nil
}
