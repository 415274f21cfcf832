// Package dataset reads the two source datasets into a unified row schema
// and writes the final merged table and metrics artifact.
package dataset

// UnifiedRecord is one address row in the unified schema shared by both
// datasets. A company (CustomerID) may own multiple address rows. Missing
// optional fields are empty strings, never absent.
type UnifiedRecord struct {
	CustomerID   string
	AddressCode  string
	CustomerName string
	Street1      string
	Street2      string
	Street3      string
	City         string
	State        string
	Country      string
	CountryCode  string
	Postal       string
}

// Unified column names.
const (
	ColCustomerID   = "customer_id"
	ColAddressCode  = "address_code"
	ColCustomerName = "customer_name"
	ColStreet1      = "street1"
	ColStreet2      = "street2"
	ColStreet3      = "street3"
	ColCity         = "city"
	ColState        = "state"
	ColCountry      = "country"
	ColCountryCode  = "country_code"
	ColPostal       = "postal"
)

// requiredColumns are the unified columns every dataset must map.
var requiredColumns = []string{
	ColCustomerID,
	ColAddressCode,
	ColCustomerName,
	ColCity,
	ColState,
	ColCountry,
	ColPostal,
}

// optionalColumns may be missing from a dataset entirely.
var optionalColumns = map[string]bool{
	ColStreet2:     true,
	ColStreet3:     true,
	ColCountryCode: true,
}
