// Package movements owns ledger writes: inward/outward/planned/finished
// entries, transfers decomposed into paired legs, and the damaged-goods
// log. Validation is all-or-nothing and runs before any network call; a
// write reaches the pending overlay only after the gateway acknowledges,
// and a failed write leaves local state exactly as it was.
package movements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
	"github.com/craftline/stockdesk/internal/metrics"
	"github.com/craftline/stockdesk/internal/store"
)

const timestampLayout = "2006-01-02 15:04:05"

// MovementDraft is one ledger entry as submitted by a form. Quantity is
// always entered positive; the service applies the sign convention.
type MovementDraft struct {
	ItemCode   string          `json:"item_code"`
	Qty        decimal.Decimal `json:"stock_qty"`
	FormType   models.FormType `json:"form_type"`
	PlantName  string          `json:"plant_name"`
	Date       string          `json:"date"`
	SalesOrder string          `json:"sales_order"`
	Remarks    string          `json:"remarks"`
}

// TransferDraft moves stock between plants; it becomes two paired ledger
// legs.
type TransferDraft struct {
	ItemCode  string          `json:"item_code"`
	Qty       decimal.Decimal `json:"stock_qty"`
	FromPlant string          `json:"from_plant"`
	ToPlant   string          `json:"to_plant"`
	Date      string          `json:"date"`
	Remarks   string          `json:"remarks"`
}

// DamagedDraft is one damaged-goods entry.
type DamagedDraft struct {
	ItemCode  string          `json:"item_code"`
	Qty       decimal.Decimal `json:"qty"`
	Reason    string          `json:"reason"`
	PlantName string          `json:"plant_name"`
	Date      string          `json:"date"`
	Remarks   string          `json:"remarks"`
}

// Service implements the ledger write flows.
type Service struct {
	gw     gateway.Gateway
	st     *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a movements service.
func NewService(gw gateway.Gateway, st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, st: st, logger: logger, now: time.Now}
}

// SubmitMovements validates and persists a batch of ledger entries.
// Outward quantities are stored negative; everything else positive.
func (s *Service) SubmitMovements(ctx context.Context, drafts []MovementDraft) ([]models.MovementRecord, error) {
	if len(drafts) == 0 {
		return nil, models.ValidationErrors{{Row: 0, Field: "items", Message: "at least one movement required"}}
	}

	var errs models.ValidationErrors
	records := make([]models.MovementRecord, 0, len(drafts))
	stamp := s.now().Format(timestampLayout)

	for i, draft := range drafts {
		if strings.TrimSpace(draft.ItemCode) == "" {
			errs = append(errs, models.FieldError{Row: i, Field: "item_code", Message: "required"})
		}
		if !draft.Qty.IsPositive() {
			errs = append(errs, models.FieldError{Row: i, Field: "stock_qty", Message: "must be positive"})
		}
		switch draft.FormType {
		case models.FormInward, models.FormOutward, models.FormPlanned, models.FormFinished:
		case models.FormTransfer:
			errs = append(errs, models.FieldError{Row: i, Field: "form_type", Message: "transfers go through the transfer flow"})
		default:
			errs = append(errs, models.FieldError{Row: i, Field: "form_type", Message: fmt.Sprintf("unknown form type %q", draft.FormType)})
		}

		qty := draft.Qty
		if draft.FormType == models.FormOutward {
			qty = qty.Neg()
		}
		records = append(records, models.MovementRecord{
			ItemCode:   draft.ItemCode,
			StockQty:   qty,
			FormType:   draft.FormType,
			PlantName:  draft.PlantName,
			Date:       draft.Date,
			SalesOrder: draft.SalesOrder,
			Remarks:    draft.Remarks,
			Timestamp:  stamp,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return s.persist(ctx, records)
}

// SubmitTransfer validates a transfer and persists its two legs in one
// batch: a negative leg at the source plant and a matching positive leg at
// the destination.
func (s *Service) SubmitTransfer(ctx context.Context, draft TransferDraft) ([]models.MovementRecord, error) {
	var errs models.ValidationErrors
	if strings.TrimSpace(draft.ItemCode) == "" {
		errs = append(errs, models.FieldError{Row: 0, Field: "item_code", Message: "required"})
	}
	if !draft.Qty.IsPositive() {
		errs = append(errs, models.FieldError{Row: 0, Field: "stock_qty", Message: "must be positive"})
	}
	if strings.TrimSpace(draft.FromPlant) == "" {
		errs = append(errs, models.FieldError{Row: 0, Field: "from_plant", Message: "required"})
	}
	if strings.TrimSpace(draft.ToPlant) == "" {
		errs = append(errs, models.FieldError{Row: 0, Field: "to_plant", Message: "required"})
	}
	if draft.FromPlant != "" && draft.FromPlant == draft.ToPlant {
		errs = append(errs, models.FieldError{Row: 0, Field: "to_plant", Message: "must differ from from_plant"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	stamp := s.now().Format(timestampLayout)
	legs := []models.MovementRecord{
		{
			ItemCode:  draft.ItemCode,
			StockQty:  draft.Qty.Neg(),
			FormType:  models.FormTransfer,
			PlantName: draft.FromPlant,
			Date:      draft.Date,
			Remarks:   draft.Remarks,
			Timestamp: stamp,
		},
		{
			ItemCode:  draft.ItemCode,
			StockQty:  draft.Qty,
			FormType:  models.FormTransfer,
			PlantName: draft.ToPlant,
			Date:      draft.Date,
			Remarks:   draft.Remarks,
			Timestamp: stamp,
		},
	}

	return s.persist(ctx, legs)
}

// SubmitDamaged validates and persists damaged-goods entries.
func (s *Service) SubmitDamaged(ctx context.Context, drafts []DamagedDraft) ([]models.DamagedRecord, error) {
	if len(drafts) == 0 {
		return nil, models.ValidationErrors{{Row: 0, Field: "items", Message: "at least one entry required"}}
	}

	var errs models.ValidationErrors
	records := make([]models.DamagedRecord, 0, len(drafts))
	stamp := s.now().Format(timestampLayout)

	for i, draft := range drafts {
		if strings.TrimSpace(draft.ItemCode) == "" {
			errs = append(errs, models.FieldError{Row: i, Field: "item_code", Message: "required"})
		}
		if !draft.Qty.IsPositive() {
			errs = append(errs, models.FieldError{Row: i, Field: "qty", Message: "must be positive"})
		}
		records = append(records, models.DamagedRecord{
			ItemCode:  draft.ItemCode,
			Qty:       draft.Qty,
			Reason:    draft.Reason,
			PlantName: draft.PlantName,
			Date:      draft.Date,
			Remarks:   draft.Remarks,
			Timestamp: stamp,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	metrics.WriteTotal.WithLabelValues("damaged").Inc()
	if err := s.gw.AppendDamaged(ctx, records); err != nil {
		metrics.WriteFailures.WithLabelValues("damaged").Inc()
		return nil, fmt.Errorf("submit damaged: %w", err)
	}

	s.st.AddPendingDamaged(records)
	s.logger.Info("damaged entries recorded", zap.Int("count", len(records)))
	return records, nil
}

func (s *Service) persist(ctx context.Context, records []models.MovementRecord) ([]models.MovementRecord, error) {
	metrics.WriteTotal.WithLabelValues("movements").Inc()
	if err := s.gw.AppendMovements(ctx, records); err != nil {
		metrics.WriteFailures.WithLabelValues("movements").Inc()
		return nil, fmt.Errorf("submit movements: %w", err)
	}

	ids := s.st.AddPendingMovements(records)
	s.logger.Info("movements recorded", zap.Int("count", len(records)), zap.Strings("pending_ids", ids))
	return records, nil
}
