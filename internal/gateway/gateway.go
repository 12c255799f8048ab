// Package gateway defines the contract against the backing spreadsheet.
// Two drivers implement it: a direct Google Sheets API adapter and an HTTP
// client for sheet web-API deployments. Reads of an empty store return
// empty slices, never errors.
package gateway

import (
	"context"
	"fmt"

	"github.com/craftline/stockdesk/internal/domain/models"
)

// Gateway is the persistence surface the rest of the application sees.
type Gateway interface {
	ListMovements(ctx context.Context) ([]models.MovementRecord, error)
	ListCatalog(ctx context.Context) ([]models.CatalogItem, error)
	ListDamaged(ctx context.Context) ([]models.DamagedRecord, error)

	AppendMovements(ctx context.Context, records []models.MovementRecord) error
	AppendCatalogItems(ctx context.Context, items []models.CatalogItem) error
	UpdateCatalogItem(ctx context.Context, item models.CatalogItem) error
	AppendDamaged(ctx context.Context, records []models.DamagedRecord) error
}

// FetchError wraps any transport or credential failure reaching the backing
// store. Handlers map it to a gateway-failure response while leaving the
// in-memory state untouched.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
