package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileCSV(t *testing.T) {
	path := writeFile(t, "ds1.csv",
		"custnmbr,addrcode,custname,sStreet1,sStreet2,sCity,sProvState,sCountry,sPostalZip\n"+
			"001,A,ACME Inc., 1 Main St ,,Toronto,ON,Canada,M5H 2N2\n"+
			"002,B,Beta Ltd,,,,,,\n")

	records, err := ReadFile(path, DefaultDS1Mapping())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "001", records[0].CustomerID)
	assert.Equal(t, "ACME Inc.", records[0].CustomerName)
	// Cell values are trimmed but otherwise untouched.
	assert.Equal(t, "1 Main St", records[0].Street1)
	assert.Equal(t, "M5H 2N2", records[0].Postal)

	// Missing values arrive as empty strings, never errors.
	assert.Equal(t, "002", records[1].CustomerID)
	assert.Empty(t, records[1].City)
	assert.Empty(t, records[1].Postal)
}

func TestReadFileMissingRequiredColumn(t *testing.T) {
	// custname column absent.
	path := writeFile(t, "ds1.csv",
		"custnmbr,addrcode,sStreet1,sStreet2,sCity,sProvState,sCountry,sPostalZip\n"+
			"001,A,1 Main St,,Toronto,ON,Canada,M5H 2N2\n")

	_, err := ReadFile(path, DefaultDS1Mapping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custname")
	assert.Contains(t, err.Error(), "custnmbr", "error should list available columns")
}

func TestReadFileOptionalColumnsMayBeAbsent(t *testing.T) {
	// DS2 without address3 and ccode: both optional.
	path := writeFile(t, "ds2.csv",
		"custnmbr,addrcode,custname,address1,address2,city,state,country,zip\n"+
			"X,Z,ACME,100 King St,,Toronto,ON,,M5H 2N2\n")

	records, err := ReadFile(path, DefaultDS2Mapping())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Street3)
	assert.Empty(t, records[0].CountryCode)
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "ds1.txt", "a,b\n1,2\n")
	_, err := ReadFile(path, DefaultDS1Mapping())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestReadFileMissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultDS1Mapping())
	require.Error(t, err)
}

func TestReadFileXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds2.xlsx")

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("data")
	require.NoError(t, err)
	for _, row := range [][]string{
		{"custnmbr", "addrcode", "custname", "address1", "address2", "address3", "city", "state", "country", "ccode", "zip"},
		{"X", "Z", "ACME", "100 King St", "", "", "Toronto", "ON", "", "CA", "M5H 2N2"},
	} {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}
	require.NoError(t, file.Save(path))

	records, err := ReadFile(path, DefaultDS2Mapping())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "X", records[0].CustomerID)
	assert.Equal(t, "CA", records[0].CountryCode)
	assert.Equal(t, "M5H 2N2", records[0].Postal)
}

func TestLoadMappingFile(t *testing.T) {
	path := writeFile(t, "columns.yaml", `
ds1:
  customer_id: id
  address_code: addr
  customer_name: name
  street1: street
  city: town
  state: region
  country: nation
  postal: zipcode
`)

	mf, err := LoadMappingFile(path)
	require.NoError(t, err)
	require.NotNil(t, mf.DS1)
	assert.Nil(t, mf.DS2)
	assert.Equal(t, "town", mf.DS1[ColCity])
}

func TestLoadMappingFileMissingRequired(t *testing.T) {
	path := writeFile(t, "columns.yaml", `
ds2:
  customer_id: id
  customer_name: name
`)
	_, err := LoadMappingFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ds2")
}
