package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// MergedRow is one output row of the merged table, one per DS1 company.
// List-valued columns serialize as JSON array literals ("[]" when empty) so
// every list column parses with a plain JSON decoder downstream.
type MergedRow struct {
	CompanyIDDS1              string
	CompanyNameDS1            string
	LocationsDS1              []string
	LocationsDS1Loose         []string
	MatchedCompanyIDsDS2      []string
	MatchedCompanyNamesDS2    []string
	LocationsDS2              []string
	LocationsDS2Loose         []string
	OverlappingLocations      []string
	OverlappingLocationsLoose []string
}

// mergedCSVRow is the flat CSV shape with list columns pre-encoded as JSON.
type mergedCSVRow struct {
	CompanyIDDS1              string `csv:"company_id_ds1"`
	CompanyNameDS1            string `csv:"company_name_ds1"`
	LocationsDS1              string `csv:"locations_ds1"`
	LocationsDS1Loose         string `csv:"locations_ds1_loose"`
	MatchedCompanyIDsDS2      string `csv:"matched_company_ids_ds2"`
	MatchedCompanyNamesDS2    string `csv:"matched_company_names_ds2"`
	LocationsDS2              string `csv:"locations_ds2"`
	LocationsDS2Loose         string `csv:"locations_ds2_loose"`
	OverlappingLocations      string `csv:"overlapping_locations"`
	OverlappingLocationsLoose string `csv:"overlapping_locations_loose"`
}

// mergedHeader is the fixed output column order.
var mergedHeader = []string{
	"company_id_ds1",
	"company_name_ds1",
	"locations_ds1",
	"locations_ds1_loose",
	"matched_company_ids_ds2",
	"matched_company_names_ds2",
	"locations_ds2",
	"locations_ds2_loose",
	"overlapping_locations",
	"overlapping_locations_loose",
}

func (r MergedRow) flatten() (mergedCSVRow, error) {
	lists := [][]string{
		r.LocationsDS1,
		r.LocationsDS1Loose,
		r.MatchedCompanyIDsDS2,
		r.MatchedCompanyNamesDS2,
		r.LocationsDS2,
		r.LocationsDS2Loose,
		r.OverlappingLocations,
		r.OverlappingLocationsLoose,
	}
	encoded := make([]string, len(lists))
	for i, l := range lists {
		s, err := encodeList(l)
		if err != nil {
			return mergedCSVRow{}, err
		}
		encoded[i] = s
	}
	return mergedCSVRow{
		CompanyIDDS1:              r.CompanyIDDS1,
		CompanyNameDS1:            r.CompanyNameDS1,
		LocationsDS1:              encoded[0],
		LocationsDS1Loose:         encoded[1],
		MatchedCompanyIDsDS2:      encoded[2],
		MatchedCompanyNamesDS2:    encoded[3],
		LocationsDS2:              encoded[4],
		LocationsDS2Loose:         encoded[5],
		OverlappingLocations:      encoded[6],
		OverlappingLocationsLoose: encoded[7],
	}, nil
}

// encodeList renders a list cell as a JSON array literal, "[]" when empty.
func encodeList(l []string) (string, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return "", eris.Wrap(err, "dataset: encode list column")
	}
	return string(b), nil
}

// WriteMergedCSV writes the merged table as CSV, creating parent directories.
func WriteMergedCSV(rows []MergedRow, path string) error {
	flat := make([]mergedCSVRow, 0, len(rows))
	for _, r := range rows {
		fr, err := r.flatten()
		if err != nil {
			return err
		}
		flat = append(flat, fr)
	}

	data, err := csvutil.Marshal(flat)
	if err != nil {
		return eris.Wrap(err, "dataset: marshal merged csv")
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "dataset: write %s", path)
	}
	return nil
}

// WriteMergedXLSX writes the merged table as a single-sheet XLSX workbook.
func WriteMergedXLSX(rows []MergedRow, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("merged_companies")
	if err != nil {
		return eris.Wrap(err, "dataset: add xlsx sheet")
	}

	headerRow := sheet.AddRow()
	for _, col := range mergedHeader {
		headerRow.AddCell().SetString(col)
	}

	for _, r := range rows {
		fr, err := r.flatten()
		if err != nil {
			return err
		}
		row := sheet.AddRow()
		for _, cell := range []string{
			fr.CompanyIDDS1, fr.CompanyNameDS1,
			fr.LocationsDS1, fr.LocationsDS1Loose,
			fr.MatchedCompanyIDsDS2, fr.MatchedCompanyNamesDS2,
			fr.LocationsDS2, fr.LocationsDS2Loose,
			fr.OverlappingLocations, fr.OverlappingLocationsLoose,
		} {
			row.AddCell().SetString(cell)
		}
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "dataset: write %s", path)
	}
	return nil
}

// WriteMetricsJSON writes the metrics artifact as indented JSON.
func WriteMetricsJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "dataset: marshal metrics")
	}
	data = append(data, '\n')

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "dataset: write %s", path)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create output dir %s", dir)
	}
	return nil
}
