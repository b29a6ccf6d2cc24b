package models

import "github.com/shopspring/decimal"

// Hour values are exact decimals internally but go over the wire as JSON
// numbers, the same as the float fields of the status records.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
