// Package catalog owns master-data writes: adding items with generated
// codes and rewriting existing records. Validation runs before any network
// call and blocks the whole batch; local state changes only after the
// gateway acknowledges.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
	"github.com/craftline/stockdesk/internal/metrics"
	"github.com/craftline/stockdesk/internal/store"
)

// ItemDraft is a new catalog row as entered in the add-item form; the item
// code is generated server-side at submission time.
type ItemDraft struct {
	Description string `json:"description"`
	PackSize    string `json:"pack_size"`
	PackType    string `json:"pack_type"`
	Unit        string `json:"unit"`
	HSNCode     string `json:"hsn_code"`
	PlantName   string `json:"plant_name"`
	LeadTime    string `json:"lead_time"`
	MaxLevel    string `json:"max_level"`
	Season      string `json:"season"`
	Brand       string `json:"brand"`
}

// Service implements the catalog write flows.
type Service struct {
	gw     gateway.Gateway
	st     *store.Store
	logger *zap.Logger
}

// NewService wires a catalog service.
func NewService(gw gateway.Gateway, st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, st: st, logger: logger}
}

// AddItems validates the batch, generates a unique code per row and
// persists everything in one append. On acknowledgment the new items join
// the pending overlay so the next aggregation sees them immediately.
func (s *Service) AddItems(ctx context.Context, drafts []ItemDraft) ([]models.CatalogItem, error) {
	if len(drafts) == 0 {
		return nil, models.ValidationErrors{{Row: 0, Field: "items", Message: "at least one item required"}}
	}

	known := s.st.KnownCodes()

	var errs models.ValidationErrors
	items := make([]models.CatalogItem, 0, len(drafts))
	for i, draft := range drafts {
		if strings.TrimSpace(draft.Description) == "" {
			errs = append(errs, models.FieldError{Row: i, Field: "description", Message: "required"})
			continue
		}

		code, err := GenerateUniqueCode(draft.Description, known)
		if err != nil {
			errs = append(errs, models.FieldError{Row: i, Field: "description", Message: err.Error()})
			continue
		}
		// Codes allocated earlier in the batch count as taken too.
		known[code] = struct{}{}

		items = append(items, models.CatalogItem{
			ItemCode:    code,
			Description: draft.Description,
			PackSize:    draft.PackSize,
			PackType:    draft.PackType,
			Unit:        draft.Unit,
			HSNCode:     draft.HSNCode,
			PlantName:   draft.PlantName,
			LeadTime:    draft.LeadTime,
			MaxLevel:    draft.MaxLevel,
			Season:      draft.Season,
			Brand:       draft.Brand,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	metrics.WriteTotal.WithLabelValues("items").Inc()
	if err := s.gw.AppendCatalogItems(ctx, items); err != nil {
		metrics.WriteFailures.WithLabelValues("items").Inc()
		return nil, fmt.Errorf("add items: %w", err)
	}

	ids := s.st.AddPendingItems(items)
	s.logger.Info("catalog items added", zap.Int("count", len(items)), zap.Strings("pending_ids", ids))
	return items, nil
}

// UpdateItem rewrites the full record for an existing code.
func (s *Service) UpdateItem(ctx context.Context, item models.CatalogItem) error {
	var errs models.ValidationErrors
	if strings.TrimSpace(item.ItemCode) == "" {
		errs = append(errs, models.FieldError{Row: 0, Field: "item_code", Message: "required"})
	}
	if strings.TrimSpace(item.Description) == "" {
		errs = append(errs, models.FieldError{Row: 0, Field: "description", Message: "required"})
	}
	if len(errs) > 0 {
		return errs
	}

	metrics.WriteTotal.WithLabelValues("items").Inc()
	if err := s.gw.UpdateCatalogItem(ctx, item); err != nil {
		metrics.WriteFailures.WithLabelValues("items").Inc()
		return fmt.Errorf("update item %s: %w", item.ItemCode, err)
	}

	s.st.SetPendingItemUpdate(item)
	s.logger.Info("catalog item updated", zap.String("item_code", item.ItemCode))
	return nil
}

// PreviewCode returns the code a description would generate right now,
// without persisting anything. The form shows it before submit.
func (s *Service) PreviewCode(description string) (string, error) {
	code, err := GenerateUniqueCode(description, s.st.KnownCodes())
	if err != nil {
		return "", models.ValidationErrors{{Row: 0, Field: "description", Message: err.Error()}}
	}
	return code, nil
}
