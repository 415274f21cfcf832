package dataset

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Mapping maps unified column names to source column names for one dataset.
type Mapping map[string]string

// MappingFile holds the per-dataset column mappings loadable from YAML.
type MappingFile struct {
	DS1 Mapping `yaml:"ds1"`
	DS2 Mapping `yaml:"ds2"`
}

// DefaultDS1Mapping maps the first dataset's export columns.
func DefaultDS1Mapping() Mapping {
	return Mapping{
		ColCustomerID:   "custnmbr",
		ColAddressCode:  "addrcode",
		ColCustomerName: "custname",
		ColStreet1:      "sStreet1",
		ColStreet2:      "sStreet2",
		ColCity:         "sCity",
		ColState:        "sProvState",
		ColCountry:      "sCountry",
		ColPostal:       "sPostalZip",
	}
}

// DefaultDS2Mapping maps the second dataset's export columns.
func DefaultDS2Mapping() Mapping {
	return Mapping{
		ColCustomerID:   "custnmbr",
		ColAddressCode:  "addrcode",
		ColCustomerName: "custname",
		ColStreet1:      "address1",
		ColStreet2:      "address2",
		ColStreet3:      "address3",
		ColCity:         "city",
		ColState:        "state",
		ColCountry:      "country",
		ColCountryCode:  "ccode",
		ColPostal:       "zip",
	}
}

// LoadMappingFile reads column mappings from a YAML file. Either dataset
// section may be omitted; the caller falls back to the defaults for it.
func LoadMappingFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read mapping file %s", path)
	}

	var mf MappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, eris.Wrapf(err, "dataset: parse mapping file %s", path)
	}

	for name, m := range map[string]Mapping{"ds1": mf.DS1, "ds2": mf.DS2} {
		if m == nil {
			continue
		}
		if err := m.validate(); err != nil {
			return nil, eris.Wrapf(err, "dataset: mapping %s", name)
		}
	}

	return &mf, nil
}

// validate checks that every required unified column has a source column.
func (m Mapping) validate() error {
	var missing []string
	for _, col := range requiredColumns {
		if m[col] == "" {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("missing required unified columns: %v", missing)
	}
	return nil
}
