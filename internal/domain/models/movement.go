package models

import "github.com/shopspring/decimal"

// FormType tags the kind of stock movement a ledger row records.
type FormType string

const (
	FormInward   FormType = "Inward"
	FormOutward  FormType = "Outward"
	FormPlanned  FormType = "Planned"
	FormFinished FormType = "Finished"
	FormTransfer FormType = "Transfer"
)

// KnownFormType reports whether the tag is one the aggregation engine
// understands. Unknown tags still contribute their quantity; they are only
// interesting for debug logging.
func KnownFormType(ft FormType) bool {
	switch ft {
	case FormInward, FormOutward, FormPlanned, FormFinished, FormTransfer:
		return true
	}
	return false
}

// MovementRecord is one row of the append-only movement ledger. Quantity is
// signed: additions are positive, removals negative, and a transfer is a
// matched pair of one negative and one positive leg.
//
// Date stays a raw string because the sheet carries several textual formats;
// parsing happens at aggregation time and a row whose date cannot be parsed
// still counts toward quantity sums.
type MovementRecord struct {
	ItemCode   string          `json:"item_code"`
	StockQty   decimal.Decimal `json:"stock_qty"`
	FormType   FormType        `json:"form_type"`
	PlantName  string          `json:"plant_name"`
	Date       string          `json:"date"`
	SalesOrder string          `json:"sales_order,omitempty"`
	Remarks    string          `json:"remarks,omitempty"`
	Timestamp  string          `json:"timestamp,omitempty"`

	// Extra carries spreadsheet columns outside the fixed schema, keyed by
	// their normalized header names.
	Extra map[string]string `json:"extra,omitempty"`
}
