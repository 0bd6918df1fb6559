package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/handler"
	"github.com/pkordes/garage-inventory/internal/service"
)

// mockGarageServicer is a test double for handler.GarageServicer.
// Set only the method fields your test needs.
type mockGarageServicer struct {
	list           func(ctx context.Context) ([]domain.Garage, error)
	get            func(ctx context.Context, id uuid.UUID) (domain.Garage, error)
	create         func(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error)
	updateRemarks  func(ctx context.Context, id uuid.UUID, remarks string) (domain.Garage, error)
	delete         func(ctx context.Context, id uuid.UUID) error
	deleteMany     func(ctx context.Context, ids []uuid.UUID) []service.DeleteResult
	setSlotRemarks func(ctx context.Context, id uuid.UUID, index int, remarks string) (domain.Garage, error)
	clearSlot      func(ctx context.Context, id uuid.UUID, index int) (domain.Garage, error)
	syncFeatures   func(ctx context.Context) ([]uuid.UUID, error)
	export         func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockGarageServicer) List(ctx context.Context) ([]domain.Garage, error) {
	return m.list(ctx)
}
func (m *mockGarageServicer) Get(ctx context.Context, id uuid.UUID) (domain.Garage, error) {
	return m.get(ctx, id)
}
func (m *mockGarageServicer) Create(ctx context.Context, d domain.GarageDraft) (domain.Garage, error) {
	return m.create(ctx, d)
}
func (m *mockGarageServicer) UpdateRemarks(ctx context.Context, id uuid.UUID, remarks string) (domain.Garage, error) {
	return m.updateRemarks(ctx, id, remarks)
}
func (m *mockGarageServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockGarageServicer) DeleteMany(ctx context.Context, ids []uuid.UUID) []service.DeleteResult {
	return m.deleteMany(ctx, ids)
}
func (m *mockGarageServicer) SetSlotRemarks(ctx context.Context, id uuid.UUID, index int, remarks string) (domain.Garage, error) {
	return m.setSlotRemarks(ctx, id, index, remarks)
}
func (m *mockGarageServicer) ClearSlot(ctx context.Context, id uuid.UUID, index int) (domain.Garage, error) {
	return m.clearSlot(ctx, id, index)
}
func (m *mockGarageServicer) SyncFeatures(ctx context.Context) ([]uuid.UUID, error) {
	return m.syncFeatures(ctx)
}
func (m *mockGarageServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time check: mockGarageServicer must satisfy handler.GarageServicer.
var _ handler.GarageServicer = (*mockGarageServicer)(nil)

// mockTransferServicer is a test double for handler.TransferServicer.
type mockTransferServicer struct {
	status             func(ctx context.Context) service.TransferStatus
	beginFromSlot      func(ctx context.Context, garageID uuid.UUID, index int) (service.TransferStatus, error)
	beginFromCatalog   func(ctx context.Context, itemID string) (service.TransferStatus, error)
	chooseTargetGarage func(ctx context.Context, garageID uuid.UUID) (service.TransferStatus, error)
	chooseTargetSlot   func(ctx context.Context, index int) (service.TransferStatus, error)
	confirm            func(ctx context.Context) (service.TransferStatus, error)
	back               func(ctx context.Context) (service.TransferStatus, error)
	cancel             func(ctx context.Context) service.TransferStatus
}

func (m *mockTransferServicer) Status(ctx context.Context) service.TransferStatus {
	return m.status(ctx)
}
func (m *mockTransferServicer) BeginFromSlot(ctx context.Context, id uuid.UUID, index int) (service.TransferStatus, error) {
	return m.beginFromSlot(ctx, id, index)
}
func (m *mockTransferServicer) BeginFromCatalog(ctx context.Context, itemID string) (service.TransferStatus, error) {
	return m.beginFromCatalog(ctx, itemID)
}
func (m *mockTransferServicer) ChooseTargetGarage(ctx context.Context, id uuid.UUID) (service.TransferStatus, error) {
	return m.chooseTargetGarage(ctx, id)
}
func (m *mockTransferServicer) ChooseTargetSlot(ctx context.Context, index int) (service.TransferStatus, error) {
	return m.chooseTargetSlot(ctx, index)
}
func (m *mockTransferServicer) Confirm(ctx context.Context) (service.TransferStatus, error) {
	return m.confirm(ctx)
}
func (m *mockTransferServicer) Back(ctx context.Context) (service.TransferStatus, error) {
	return m.back(ctx)
}
func (m *mockTransferServicer) Cancel(ctx context.Context) service.TransferStatus {
	return m.cancel(ctx)
}

var _ handler.TransferServicer = (*mockTransferServicer)(nil)

// mockCatalogServicer is a test double for handler.CatalogServicer.
type mockCatalogServicer struct {
	brands            func(ctx context.Context) ([]domain.Brand, error)
	brandItems        func(ctx context.Context, brandID string) ([]domain.Item, error)
	items             func(ctx context.Context, brandID string, page, limit int) (domain.Page[domain.Item], domain.PaginationParams, error)
	featureLabels     func(ctx context.Context) (map[string]string, error)
	vehicleTypeLabels func(ctx context.Context) (map[string]string, error)
}

func (m *mockCatalogServicer) Brands(ctx context.Context) ([]domain.Brand, error) {
	return m.brands(ctx)
}
func (m *mockCatalogServicer) BrandItems(ctx context.Context, brandID string) ([]domain.Item, error) {
	return m.brandItems(ctx, brandID)
}
func (m *mockCatalogServicer) Items(ctx context.Context, brandID string, page, limit int) (domain.Page[domain.Item], domain.PaginationParams, error) {
	return m.items(ctx, brandID, page, limit)
}
func (m *mockCatalogServicer) FeatureLabels(ctx context.Context) (map[string]string, error) {
	return m.featureLabels(ctx)
}
func (m *mockCatalogServicer) VehicleTypeLabels(ctx context.Context) (map[string]string, error) {
	return m.vehicleTypeLabels(ctx)
}

var _ handler.CatalogServicer = (*mockCatalogServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// serve runs one request through Server.Routes, exactly as main.go mounts it.
func serve(srv *handler.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

var (
	garageA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	garageB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

func garageFixture() domain.Garage {
	return domain.Garage{
		ID:       garageA,
		Name:     "North Bay",
		Capacity: 2,
		Slots:    domain.SlotArray{{ItemID: "civic-01", Name: "Civic"}, {}},
		Order:    1,
	}
}
