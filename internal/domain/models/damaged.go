package models

import "github.com/shopspring/decimal"

// DamagedRecord logs goods written off as damaged. These rows live in their
// own sheet and do not participate in stock aggregation.
type DamagedRecord struct {
	ItemCode  string          `json:"item_code"`
	Qty       decimal.Decimal `json:"qty"`
	Reason    string          `json:"reason,omitempty"`
	PlantName string          `json:"plant_name,omitempty"`
	Date      string          `json:"date"`
	Remarks   string          `json:"remarks,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}
