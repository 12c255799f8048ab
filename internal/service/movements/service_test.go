package movements_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/stockdesk/internal/domain/models"
	"github.com/craftline/stockdesk/internal/gateway"
	"github.com/craftline/stockdesk/internal/service/movements"
	"github.com/craftline/stockdesk/internal/store"
)

type fakeGateway struct {
	appendedMovements [][]models.MovementRecord
	appendedDamaged   [][]models.DamagedRecord
	failWrites        bool
}

func (f *fakeGateway) ListMovements(context.Context) ([]models.MovementRecord, error) {
	return nil, nil
}
func (f *fakeGateway) ListCatalog(context.Context) ([]models.CatalogItem, error) { return nil, nil }
func (f *fakeGateway) ListDamaged(context.Context) ([]models.DamagedRecord, error) {
	return nil, nil
}

func (f *fakeGateway) AppendMovements(_ context.Context, records []models.MovementRecord) error {
	if f.failWrites {
		return &gateway.FetchError{Op: "append movements", Err: errors.New("backend down")}
	}
	f.appendedMovements = append(f.appendedMovements, records)
	return nil
}

func (f *fakeGateway) AppendCatalogItems(context.Context, []models.CatalogItem) error { return nil }
func (f *fakeGateway) UpdateCatalogItem(context.Context, models.CatalogItem) error    { return nil }

func (f *fakeGateway) AppendDamaged(_ context.Context, records []models.DamagedRecord) error {
	if f.failWrites {
		return &gateway.FetchError{Op: "append damaged", Err: errors.New("backend down")}
	}
	f.appendedDamaged = append(f.appendedDamaged, records)
	return nil
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSubmitMovements_OptimisticMerge(t *testing.T) {
	gw := &fakeGateway{}
	st := store.New()
	st.ReplaceConfirmed(nil, nil, nil)
	svc := movements.NewService(gw, st, nil)

	records, err := svc.SubmitMovements(context.Background(), []movements.MovementDraft{
		{ItemCode: "X", Qty: qty("100"), FormType: models.FormInward, PlantName: "P1", Date: "01-01-2025"},
		{ItemCode: "X", Qty: qty("30"), FormType: models.FormOutward, PlantName: "P1", Date: "02-01-2025"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Outward stored negative, inward positive.
	assert.True(t, records[0].StockQty.Equal(qty("100")))
	assert.True(t, records[1].StockQty.Equal(qty("-30")))
	assert.NotEmpty(t, records[0].Timestamp)

	// Acknowledged rows land in the overlay without waiting for a refetch.
	assert.Len(t, st.Movements(), 2)
	require.Len(t, gw.appendedMovements, 1)
}

func TestSubmitMovements_ValidationBlocksWholeBatch(t *testing.T) {
	gw := &fakeGateway{}
	st := store.New()
	svc := movements.NewService(gw, st, nil)

	_, err := svc.SubmitMovements(context.Background(), []movements.MovementDraft{
		{ItemCode: "X", Qty: qty("10"), FormType: models.FormInward},
		{ItemCode: "", Qty: qty("-5"), FormType: models.FormType("Bogus")},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	for _, fe := range verrs {
		assert.Equal(t, 1, fe.Row)
	}

	// All-or-nothing: the valid first row was not sent either.
	assert.Empty(t, gw.appendedMovements)
	assert.Empty(t, st.Movements())
}

func TestSubmitMovements_WriteFailureLeavesStateUntouched(t *testing.T) {
	gw := &fakeGateway{failWrites: true}
	st := store.New()
	st.ReplaceConfirmed(nil, nil, nil)
	svc := movements.NewService(gw, st, nil)

	_, err := svc.SubmitMovements(context.Background(), []movements.MovementDraft{
		{ItemCode: "X", Qty: qty("10"), FormType: models.FormInward},
	})

	require.Error(t, err)
	var fetchErr *gateway.FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.Empty(t, st.Movements())
}

func TestSubmitTransfer_TwoPairedLegs(t *testing.T) {
	gw := &fakeGateway{}
	st := store.New()
	st.ReplaceConfirmed(nil, nil, nil)
	svc := movements.NewService(gw, st, nil)

	legs, err := svc.SubmitTransfer(context.Background(), movements.TransferDraft{
		ItemCode:  "X",
		Qty:       qty("25"),
		FromPlant: "P1",
		ToPlant:   "P2",
		Date:      "10-06-2025",
	})
	require.NoError(t, err)
	require.Len(t, legs, 2)

	assert.True(t, legs[0].StockQty.Equal(qty("-25")))
	assert.Equal(t, "P1", legs[0].PlantName)
	assert.True(t, legs[1].StockQty.Equal(qty("25")))
	assert.Equal(t, "P2", legs[1].PlantName)
	assert.Equal(t, models.FormTransfer, legs[0].FormType)
	assert.Equal(t, models.FormTransfer, legs[1].FormType)

	// The pair nets to zero across plants.
	assert.True(t, legs[0].StockQty.Add(legs[1].StockQty).IsZero())

	// Both legs went out in one batch.
	require.Len(t, gw.appendedMovements, 1)
	assert.Len(t, gw.appendedMovements[0], 2)
}

func TestSubmitTransfer_SamePlantRejected(t *testing.T) {
	svc := movements.NewService(&fakeGateway{}, store.New(), nil)

	_, err := svc.SubmitTransfer(context.Background(), movements.TransferDraft{
		ItemCode:  "X",
		Qty:       qty("5"),
		FromPlant: "P1",
		ToPlant:   "P1",
	})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSubmitDamaged(t *testing.T) {
	gw := &fakeGateway{}
	st := store.New()
	st.ReplaceConfirmed(nil, nil, nil)
	svc := movements.NewService(gw, st, nil)

	records, err := svc.SubmitDamaged(context.Background(), []movements.DamagedDraft{
		{ItemCode: "X", Qty: qty("3"), Reason: "crushed in transit", PlantName: "P1", Date: "11-06-2025"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, st.Damaged(), 1)

	_, err = svc.SubmitDamaged(context.Background(), []movements.DamagedDraft{
		{ItemCode: "", Qty: qty("0")},
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}
