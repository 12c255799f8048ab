package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregatedStock is the derived per-item view produced by folding the
// movement ledger. It is never persisted and is recomputed from scratch on
// every ledger change.
type AggregatedStock struct {
	ItemCode string `json:"item_code"`

	// UnplannedQty sums every non-Planned, non-Finished movement, minus
	// quantities reserved by Planned rows.
	UnplannedQty decimal.Decimal `json:"unplanned_stock_qty"`

	// PlannedQty sums Planned rows minus Finished rows.
	PlannedQty decimal.Decimal `json:"planned_stock_qty"`

	// PlantName comes from the most recent positive physical movement.
	// Empty when no dated positive movement exists.
	PlantName string `json:"plant_name,omitempty"`

	// LatestDate is the parsed date of that movement; zero when unset.
	LatestDate time.Time `json:"-"`

	// AgeDays is whole days since LatestDate, nil when LatestDate is unset.
	AgeDays *int `json:"age_days,omitempty"`
}

// MergedRow joins a catalog item with its aggregate for the dashboard
// table. Items without movements carry zero quantities and no age.
type MergedRow struct {
	CatalogItem

	UnplannedQty decimal.Decimal `json:"unplanned_stock_qty"`
	PlannedQty   decimal.Decimal `json:"planned_stock_qty"`
	StockPlant   string          `json:"stock_plant_name,omitempty"`
	AgeDays      *int            `json:"age_days,omitempty"`
}

// StockSnapshot is the nightly archive document written to MongoDB so stock
// history survives edits to the spreadsheet itself.
type StockSnapshot struct {
	ID        string        `bson:"_id" json:"id"`
	Date      time.Time     `bson:"date" json:"date"`
	Rows      []SnapshotRow `bson:"rows" json:"rows"`
	ItemCount int           `bson:"item_count" json:"item_count"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// SnapshotRow stores quantities as strings to keep decimal values exact in
// BSON.
type SnapshotRow struct {
	ItemCode     string `bson:"item_code" json:"item_code"`
	UnplannedQty string `bson:"unplanned_stock_qty" json:"unplanned_stock_qty"`
	PlannedQty   string `bson:"planned_stock_qty" json:"planned_stock_qty"`
	PlantName    string `bson:"plant_name,omitempty" json:"plant_name,omitempty"`
	AgeDays      *int   `bson:"age_days,omitempty" json:"age_days,omitempty"`
}
