// Package sheets implements the gateway against the Google Sheets API.
// Each collection lives in its own tab; the first row is the header row and
// column order is whatever the spreadsheet currently has, so every read and
// write resolves columns through normalized header names.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/craftline/stockdesk/internal/config"
	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
)

// Driver implements gateway.Gateway using the official Google Sheets API.
type Driver struct {
	service       *sheetsapi.Service
	spreadsheetID string
	movementsTab  string
	itemsTab      string
	damagedTab    string
	logger        *zap.Logger
}

var _ gateway.Gateway = (*Driver)(nil)

// New builds a Google Sheets backed gateway instance.
func New(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Driver{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		movementsTab:  cfg.MovementsTab,
		itemsTab:      cfg.ItemsTab,
		damagedTab:    cfg.DamagedTab,
		logger:        logger,
	}, nil
}

// ListMovements fetches every ledger row in sheet order.
func (d *Driver) ListMovements(ctx context.Context) ([]models.MovementRecord, error) {
	rows, err := d.listTab(ctx, d.movementsTab)
	if err != nil {
		return nil, &gateway.FetchError{Op: "list movements", Err: err}
	}

	records := make([]models.MovementRecord, 0, len(rows))
	for _, fields := range rows {
		records = append(records, gateway.MovementFromFields(fields))
	}
	return records, nil
}

// ListCatalog fetches the master item list.
func (d *Driver) ListCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := d.listTab(ctx, d.itemsTab)
	if err != nil {
		return nil, &gateway.FetchError{Op: "list catalog", Err: err}
	}

	items := make([]models.CatalogItem, 0, len(rows))
	for _, fields := range rows {
		items = append(items, gateway.CatalogItemFromFields(fields))
	}
	return items, nil
}

// ListDamaged fetches the damaged-goods log.
func (d *Driver) ListDamaged(ctx context.Context) ([]models.DamagedRecord, error) {
	rows, err := d.listTab(ctx, d.damagedTab)
	if err != nil {
		return nil, &gateway.FetchError{Op: "list damaged", Err: err}
	}

	records := make([]models.DamagedRecord, 0, len(rows))
	for _, fields := range rows {
		records = append(records, gateway.DamagedFromFields(fields))
	}
	return records, nil
}

// AppendMovements appends ledger rows in one call.
func (d *Driver) AppendMovements(ctx context.Context, records []models.MovementRecord) error {
	fieldRows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		fieldRows = append(fieldRows, gateway.MovementToFields(rec))
	}
	if err := d.appendRows(ctx, d.movementsTab, fieldRows); err != nil {
		return &gateway.FetchError{Op: "append movements", Err: err}
	}
	return nil
}

// AppendCatalogItems appends master-data rows in one call.
func (d *Driver) AppendCatalogItems(ctx context.Context, items []models.CatalogItem) error {
	fieldRows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		fieldRows = append(fieldRows, gateway.CatalogItemToFields(item))
	}
	if err := d.appendRows(ctx, d.itemsTab, fieldRows); err != nil {
		return &gateway.FetchError{Op: "append catalog items", Err: err}
	}
	return nil
}

// UpdateCatalogItem rewrites the full row whose item_code matches.
func (d *Driver) UpdateCatalogItem(ctx context.Context, item models.CatalogItem) error {
	headers, err := d.headerRow(ctx, d.itemsTab)
	if err != nil {
		return &gateway.FetchError{Op: "update catalog item", Err: err}
	}

	codeCol := -1
	for i, h := range headers {
		if h == gateway.KeyItemCode {
			codeCol = i
			break
		}
	}
	if codeCol < 0 {
		return &gateway.FetchError{Op: "update catalog item", Err: fmt.Errorf("tab %s has no item_code column", d.itemsTab)}
	}

	resp, err := d.service.Spreadsheets.Values.Get(d.spreadsheetID, d.itemsTab).Context(ctx).Do()
	if err != nil {
		return &gateway.FetchError{Op: "update catalog item", Err: fmt.Errorf("read tab %s: %w", d.itemsTab, err)}
	}

	rowIndex := -1
	for i := 1; i < len(resp.Values); i++ {
		row := resp.Values[i]
		if codeCol < len(row) && fmt.Sprint(row[codeCol]) == item.ItemCode {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		return &gateway.FetchError{Op: "update catalog item", Err: fmt.Errorf("item %s not found in tab %s", item.ItemCode, d.itemsTab)}
	}

	values := rowForHeaders(headers, gateway.CatalogItemToFields(item))
	writeRange := fmt.Sprintf("%s!A%d", d.itemsTab, rowIndex+1)

	call := d.service.Spreadsheets.Values.Update(d.spreadsheetID, writeRange, &sheetsapi.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx)
	if _, err := call.Do(); err != nil {
		return &gateway.FetchError{Op: "update catalog item", Err: fmt.Errorf("update row %s: %w", writeRange, err)}
	}

	d.logger.Debug("catalog row updated", zap.String("item_code", item.ItemCode), zap.String("range", writeRange))
	return nil
}

// AppendDamaged appends damaged-goods rows in one call.
func (d *Driver) AppendDamaged(ctx context.Context, records []models.DamagedRecord) error {
	fieldRows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		fieldRows = append(fieldRows, gateway.DamagedToFields(rec))
	}
	if err := d.appendRows(ctx, d.damagedTab, fieldRows); err != nil {
		return &gateway.FetchError{Op: "append damaged", Err: err}
	}
	return nil
}

// listTab reads a whole tab and returns its data rows as normalized-key
// field maps. A tab holding only the header row yields an empty slice.
func (d *Driver) listTab(ctx context.Context, tab string) ([]map[string]string, error) {
	if tab == "" {
		return nil, fmt.Errorf("tab name must not be empty")
	}

	resp, err := d.service.Spreadsheets.Values.Get(d.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read tab %s: %w", tab, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	headers := normalizeHeaders(resp.Values[0])

	rows := make([]map[string]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(raw) {
				continue
			}
			fields[h] = fmt.Sprint(raw[i])
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// appendRows places values under the tab's current header order and appends
// them below the existing data. Fields without a matching column are
// dropped; the driver never grows the sheet sideways.
func (d *Driver) appendRows(ctx context.Context, tab string, fieldRows []map[string]string) error {
	if len(fieldRows) == 0 {
		return nil
	}

	headers, err := d.headerRow(ctx, tab)
	if err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(fieldRows))
	for _, fields := range fieldRows {
		values = append(values, rowForHeaders(headers, fields))
	}

	payload := &sheetsapi.ValueRange{Values: values}
	call := d.service.Spreadsheets.Values.Append(d.spreadsheetID, tab, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into tab %s: %w", tab, err)
	}

	d.logger.Debug("rows appended to sheet", zap.String("tab", tab), zap.Int("count", len(values)))
	return nil
}

func (d *Driver) headerRow(ctx context.Context, tab string) ([]string, error) {
	resp, err := d.service.Spreadsheets.Values.Get(d.spreadsheetID, tab+"!1:1").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header row of tab %s: %w", tab, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return nil, fmt.Errorf("tab %s has no header row", tab)
	}
	return normalizeHeaders(resp.Values[0]), nil
}

func normalizeHeaders(raw []interface{}) []string {
	headers := make([]string, len(raw))
	for i, cell := range raw {
		headers[i] = gateway.NormalizeHeader(fmt.Sprint(cell))
	}
	return headers
}

func rowForHeaders(headers []string, fields map[string]string) []interface{} {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = fields[h]
	}
	return row
}
