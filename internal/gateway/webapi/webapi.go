// Package webapi implements the gateway against an HTTP sheet API, for
// deployments where the spreadsheet is fronted by an Apps-Script style web
// endpoint instead of direct API credentials. The endpoint serves rows as
// JSON objects keyed by normalized column headers and accepts appends as
// POST {items: [...]}; any non-2xx status means the whole batch was
// rejected.
package webapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/craftline/stockdesk/internal/config"
	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
)

// Driver is a resty-backed implementation of gateway.Gateway.
type Driver struct {
	httpClient *resty.Client
}

var _ gateway.Gateway = (*Driver)(nil)

// New builds a sheet web-API gateway using the provided configuration.
func New(cfg config.WebAPIConfig) *Driver {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &Driver{httpClient: restyClient}
}

// ListMovements fetches the ledger.
func (d *Driver) ListMovements(ctx context.Context) ([]models.MovementRecord, error) {
	rows, err := d.list(ctx, "/movements")
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
	rows, err := d.list(ctx, "/items")
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
	rows, err := d.list(ctx, "/damaged")
	if err != nil {
		return nil, &gateway.FetchError{Op: "list damaged", Err: err}
	}

	records := make([]models.DamagedRecord, 0, len(rows))
	for _, fields := range rows {
		records = append(records, gateway.DamagedFromFields(fields))
	}
	return records, nil
}

// AppendMovements posts the batch; 2xx means every row was accepted.
func (d *Driver) AppendMovements(ctx context.Context, records []models.MovementRecord) error {
	items := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		items = append(items, gateway.MovementToFields(rec))
	}
	if err := d.post(ctx, "/movements", map[string]interface{}{"items": items}); err != nil {
		return &gateway.FetchError{Op: "append movements", Err: err}
	}
	return nil
}

// AppendCatalogItems posts one request per item, matching the endpoint's
// single-record catalog contract.
func (d *Driver) AppendCatalogItems(ctx context.Context, items []models.CatalogItem) error {
	for _, item := range items {
		if err := d.post(ctx, "/items", map[string]interface{}{"item": gateway.CatalogItemToFields(item)}); err != nil {
			return &gateway.FetchError{Op: "append catalog items", Err: err}
		}
	}
	return nil
}

// UpdateCatalogItem posts the full replacement record.
func (d *Driver) UpdateCatalogItem(ctx context.Context, item models.CatalogItem) error {
	if err := d.post(ctx, "/items/update", map[string]interface{}{"item": gateway.CatalogItemToFields(item)}); err != nil {
		return &gateway.FetchError{Op: "update catalog item", Err: err}
	}
	return nil
}

// AppendDamaged posts the damaged-goods batch.
func (d *Driver) AppendDamaged(ctx context.Context, records []models.DamagedRecord) error {
	items := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		items = append(items, gateway.DamagedToFields(rec))
	}
	if err := d.post(ctx, "/damaged", map[string]interface{}{"items": items}); err != nil {
		return &gateway.FetchError{Op: "append damaged", Err: err}
	}
	return nil
}

func (d *Driver) list(ctx context.Context, path string) ([]map[string]string, error) {
	var payload []map[string]interface{}

	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: status %s", path, resp.Status())
	}

	rows := make([]map[string]string, 0, len(payload))
	for _, obj := range payload {
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			if v == nil {
				continue
			}
			fields[gateway.NormalizeHeader(k)] = fmt.Sprint(v)
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

func (d *Driver) post(ctx context.Context, path string, body interface{}) error {
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("POST %s: status %s", path, resp.Status())
	}
	return nil
}
