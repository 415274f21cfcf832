package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadFile reads a dataset from a CSV or XLSX file and maps it into the
// unified schema. All cell values are kept as strings so identifiers keep
// leading zeros; empty cells become empty strings.
//
// Structural problems (unreadable file, missing required columns) are the
// only errors: messy field values are the normalizer's job, not ours.
func ReadFile(path string, mapping Mapping) ([]UnifiedRecord, error) {
	if err := mapping.validate(); err != nil {
		return nil, eris.Wrapf(err, "dataset: mapping for %s", path)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, eris.Errorf("dataset: unsupported input format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, eris.Errorf("dataset: %s has no header row", path)
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	// Every mapped source column must exist unless the unified column is
	// optional. Failing here keeps the downstream schema guarantee intact.
	var missing []string
	for unified, source := range mapping {
		if optionalColumns[unified] {
			continue
		}
		if _, ok := colIdx[source]; !ok {
			missing = append(missing, source)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("dataset: %s is missing required columns %v (available: %s)",
			path, missing, strings.Join(header, ", "))
	}

	records := make([]UnifiedRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, UnifiedRecord{
			CustomerID:   getCol(row, colIdx, mapping[ColCustomerID]),
			AddressCode:  getCol(row, colIdx, mapping[ColAddressCode]),
			CustomerName: getCol(row, colIdx, mapping[ColCustomerName]),
			Street1:      getCol(row, colIdx, mapping[ColStreet1]),
			Street2:      getCol(row, colIdx, mapping[ColStreet2]),
			Street3:      getCol(row, colIdx, mapping[ColStreet3]),
			City:         getCol(row, colIdx, mapping[ColCity]),
			State:        getCol(row, colIdx, mapping[ColState]),
			Country:      getCol(row, colIdx, mapping[ColCountry]),
			CountryCode:  getCol(row, colIdx, mapping[ColCountryCode]),
			Postal:       getCol(row, colIdx, mapping[ColPostal]),
		})
	}

	return records, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read csv %s", path)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("dataset: xlsx %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.String())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func getCol(row []string, colIdx map[string]int, source string) string {
	if source == "" {
		return ""
	}
	idx, ok := colIdx[source]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
