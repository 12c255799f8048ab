package gateway

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/craftline/stockdesk/internal/domain/models"
)

// Field keys shared by both drivers. Raw column headers are normalized to
// these; storage-side column ordering never matters.
const (
	KeyItemCode    = "item_code"
	KeyStockQty    = "stock_qty"
	KeyFormType    = "form_type"
	KeyPlantName   = "plant_name"
	KeyDate        = "date"
	KeySalesOrder  = "sales_order"
	KeyRemarks     = "remarks"
	KeyTimestamp   = "timestamp"
	KeyDescription = "description"
	KeyPackSize    = "pack_size"
	KeyPackType    = "pack_type"
	KeyUnit        = "unit"
	KeyHSNCode     = "hsn_code"
	KeyLeadTime    = "lead_time"
	KeyMaxLevel    = "max_level"
	KeySeason      = "season"
	KeyBrand       = "brand"
	KeyQty         = "qty"
	KeyReason      = "reason"
)

// NormalizeHeader lower-cases a raw column header and turns space runs into
// single underscores, producing the stable field keys above. Unknown
// headers pass through with the same treatment.
func NormalizeHeader(raw string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	return strings.Join(fields, "_")
}

// MovementFromFields maps a normalized-key row to a typed record. A
// quantity cell that fails to parse counts as zero; the row is kept so the
// ledger never loses entries to sloppy cells.
func MovementFromFields(fields map[string]string) models.MovementRecord {
	rec := models.MovementRecord{
		ItemCode:   fields[KeyItemCode],
		FormType:   models.FormType(fields[KeyFormType]),
		PlantName:  fields[KeyPlantName],
		Date:       fields[KeyDate],
		SalesOrder: fields[KeySalesOrder],
		Remarks:    fields[KeyRemarks],
		Timestamp:  fields[KeyTimestamp],
	}
	if qty, err := decimal.NewFromString(strings.TrimSpace(fields[KeyStockQty])); err == nil {
		rec.StockQty = qty
	}
	rec.Extra = extraFields(fields, movementKeys)
	return rec
}

// MovementToFields is the write-side inverse.
func MovementToFields(rec models.MovementRecord) map[string]string {
	fields := map[string]string{
		KeyItemCode:   rec.ItemCode,
		KeyStockQty:   rec.StockQty.String(),
		KeyFormType:   string(rec.FormType),
		KeyPlantName:  rec.PlantName,
		KeyDate:       rec.Date,
		KeySalesOrder: rec.SalesOrder,
		KeyRemarks:    rec.Remarks,
		KeyTimestamp:  rec.Timestamp,
	}
	for k, v := range rec.Extra {
		fields[k] = v
	}
	return fields
}

// CatalogItemFromFields maps a normalized-key row to a catalog item.
func CatalogItemFromFields(fields map[string]string) models.CatalogItem {
	item := models.CatalogItem{
		ItemCode:    fields[KeyItemCode],
		Description: fields[KeyDescription],
		PackSize:    fields[KeyPackSize],
		PackType:    fields[KeyPackType],
		Unit:        fields[KeyUnit],
		HSNCode:     fields[KeyHSNCode],
		PlantName:   fields[KeyPlantName],
		LeadTime:    fields[KeyLeadTime],
		MaxLevel:    fields[KeyMaxLevel],
		Season:      fields[KeySeason],
		Brand:       fields[KeyBrand],
	}
	item.Extra = extraFields(fields, catalogKeys)
	return item
}

// CatalogItemToFields is the write-side inverse.
func CatalogItemToFields(item models.CatalogItem) map[string]string {
	fields := map[string]string{
		KeyItemCode:    item.ItemCode,
		KeyDescription: item.Description,
		KeyPackSize:    item.PackSize,
		KeyPackType:    item.PackType,
		KeyUnit:        item.Unit,
		KeyHSNCode:     item.HSNCode,
		KeyPlantName:   item.PlantName,
		KeyLeadTime:    item.LeadTime,
		KeyMaxLevel:    item.MaxLevel,
		KeySeason:      item.Season,
		KeyBrand:       item.Brand,
	}
	for k, v := range item.Extra {
		fields[k] = v
	}
	return fields
}

// DamagedFromFields maps a normalized-key row to a damaged-goods record.
func DamagedFromFields(fields map[string]string) models.DamagedRecord {
	rec := models.DamagedRecord{
		ItemCode:  fields[KeyItemCode],
		Reason:    fields[KeyReason],
		PlantName: fields[KeyPlantName],
		Date:      fields[KeyDate],
		Remarks:   fields[KeyRemarks],
		Timestamp: fields[KeyTimestamp],
	}
	if qty, err := decimal.NewFromString(strings.TrimSpace(fields[KeyQty])); err == nil {
		rec.Qty = qty
	}
	rec.Extra = extraFields(fields, damagedKeys)
	return rec
}

// DamagedToFields is the write-side inverse.
func DamagedToFields(rec models.DamagedRecord) map[string]string {
	fields := map[string]string{
		KeyItemCode:  rec.ItemCode,
		KeyQty:       rec.Qty.String(),
		KeyReason:    rec.Reason,
		KeyPlantName: rec.PlantName,
		KeyDate:      rec.Date,
		KeyRemarks:   rec.Remarks,
		KeyTimestamp: rec.Timestamp,
	}
	for k, v := range rec.Extra {
		fields[k] = v
	}
	return fields
}

var movementKeys = map[string]struct{}{
	KeyItemCode: {}, KeyStockQty: {}, KeyFormType: {}, KeyPlantName: {},
	KeyDate: {}, KeySalesOrder: {}, KeyRemarks: {}, KeyTimestamp: {},
}

var catalogKeys = map[string]struct{}{
	KeyItemCode: {}, KeyDescription: {}, KeyPackSize: {}, KeyPackType: {},
	KeyUnit: {}, KeyHSNCode: {}, KeyPlantName: {}, KeyLeadTime: {},
	KeyMaxLevel: {}, KeySeason: {}, KeyBrand: {},
}

var damagedKeys = map[string]struct{}{
	KeyItemCode: {}, KeyQty: {}, KeyReason: {}, KeyPlantName: {},
	KeyDate: {}, KeyRemarks: {}, KeyTimestamp: {},
}

func extraFields(fields map[string]string, known map[string]struct{}) map[string]string {
	var extra map[string]string
	for k, v := range fields {
		if _, ok := known[k]; ok {
			continue
		}
		if v == "" {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[k] = v
	}
	return extra
}
