// Package stock derives the live per-item stock view from the movement
// ledger and the master catalog. Aggregation is a pure fold over the
// ledger: recomputing from the same rows always yields the same result,
// and quantity sums are invariant to row order.
package stock

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/pkg/dates"
)

// Engine folds movement records into per-item aggregates.
type Engine struct {
	logger *zap.Logger
}

// NewEngine wires an aggregation engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

type accumulator struct {
	unplanned decimal.Decimal
	planned   decimal.Decimal
	plant     string
	latest    time.Time
	hasLatest bool
}

// Aggregate folds the ledger into a map keyed by item code. Items with no
// movements are absent from the output.
//
// Planned rows reserve stock out of the unplanned pool: their quantity is
// added to the planned sum and subtracted from the unplanned sum. Finished
// rows consume the reservation only. Every other row, unknown tags
// included, adds its signed quantity to the unplanned sum.
//
// Plant and age come from the latest-dated positive physical movement.
// Recency compares parsed dates, never array positions: a later date wins
// and an exact tie keeps the value already recorded, so orderings that
// differ only in position agree on the result. Rows with unparseable dates
// still contribute to the sums but never to recency.
func (e *Engine) Aggregate(movements []models.MovementRecord, now time.Time) map[string]models.AggregatedStock {
	acc := make(map[string]*accumulator)

	for _, rec := range movements {
		if rec.ItemCode == "" {
			continue
		}

		a := acc[rec.ItemCode]
		if a == nil {
			a = &accumulator{}
			acc[rec.ItemCode] = a
		}

		switch rec.FormType {
		case models.FormPlanned:
			a.planned = a.planned.Add(rec.StockQty)
			a.unplanned = a.unplanned.Sub(rec.StockQty)
		case models.FormFinished:
			a.planned = a.planned.Sub(rec.StockQty)
		default:
			if !models.KnownFormType(rec.FormType) {
				e.logger.Debug("unknown form type treated as physical movement",
					zap.String("item_code", rec.ItemCode),
					zap.String("form_type", string(rec.FormType)))
			}
			a.unplanned = a.unplanned.Add(rec.StockQty)

			if rec.StockQty.IsPositive() {
				if d, ok := dates.Parse(rec.Date); ok {
					day := dates.Day(d)
					if !a.hasLatest || day.After(a.latest) {
						a.latest = day
						a.plant = rec.PlantName
						a.hasLatest = true
					}
				}
			}
		}
	}

	out := make(map[string]models.AggregatedStock, len(acc))
	for code, a := range acc {
		view := models.AggregatedStock{
			ItemCode:     code,
			UnplannedQty: a.unplanned,
			PlannedQty:   a.planned,
		}
		if a.hasLatest {
			view.PlantName = a.plant
			view.LatestDate = a.latest
			age := dates.DaysBetween(a.latest, now)
			view.AgeDays = &age
		}
		out[code] = view
	}
	return out
}

// Merge joins catalog items with their aggregates for the dashboard table.
// Catalog items without movements get zero quantities and no age; orphan
// aggregates without a catalog entry are not part of this view.
func (e *Engine) Merge(items []models.CatalogItem, aggregates map[string]models.AggregatedStock) []models.MergedRow {
	rows := make([]models.MergedRow, 0, len(items))
	for _, item := range items {
		row := models.MergedRow{CatalogItem: item}
		if agg, ok := aggregates[item.ItemCode]; ok {
			row.UnplannedQty = agg.UnplannedQty
			row.PlannedQty = agg.PlannedQty
			row.StockPlant = agg.PlantName
			row.AgeDays = agg.AgeDays
		}
		rows = append(rows, row)
	}
	return rows
}

// Orphans lists aggregates whose item code has no catalog entry, sorted by
// code for stable output. The dashboard shows them separately so a typo in
// a movement row is visible instead of silently dropped.
func (e *Engine) Orphans(items []models.CatalogItem, aggregates map[string]models.AggregatedStock) []models.AggregatedStock {
	known := make(map[string]struct{}, len(items))
	for _, item := range items {
		known[item.ItemCode] = struct{}{}
	}

	var orphans []models.AggregatedStock
	for code, agg := range aggregates {
		if _, ok := known[code]; !ok {
			orphans = append(orphans, agg)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].ItemCode < orphans[j].ItemCode })
	return orphans
}
