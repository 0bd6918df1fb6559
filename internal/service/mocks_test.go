package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/repo"
)

// mockGarageRepo is a hand-written test double for repo.GarageRepo.
// Each method is a function field; set only the ones your test needs.
type mockGarageRepo struct {
	list   func(ctx context.Context) ([]domain.Garage, error)
	create func(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error)
	save   func(ctx context.Context, g domain.Garage) (domain.Garage, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (m *mockGarageRepo) List(ctx context.Context) ([]domain.Garage, error) {
	return m.list(ctx)
}
func (m *mockGarageRepo) Create(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error) {
	return m.create(ctx, draft)
}
func (m *mockGarageRepo) Save(ctx context.Context, g domain.Garage) (domain.Garage, error) {
	return m.save(ctx, g)
}
func (m *mockGarageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockGarageRepo must satisfy repo.GarageRepo.
var _ repo.GarageRepo = (*mockGarageRepo)(nil)

// mockCatalogRepo is a hand-written test double for repo.CatalogRepo.
type mockCatalogRepo struct {
	listBrands       func(ctx context.Context) ([]domain.Brand, error)
	getBrand         func(ctx context.Context, id string) (domain.Brand, error)
	listItemsByBrand func(ctx context.Context, brandID string) ([]domain.Item, error)
	listAllItems     func(ctx context.Context) ([]domain.Item, error)
	listItemsPaged   func(ctx context.Context, brandID string, p domain.PaginationParams) (domain.Page[domain.Item], error)
	getItem          func(ctx context.Context, id string) (domain.Item, error)
}

func (m *mockCatalogRepo) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return m.listBrands(ctx)
}
func (m *mockCatalogRepo) GetBrand(ctx context.Context, id string) (domain.Brand, error) {
	return m.getBrand(ctx, id)
}
func (m *mockCatalogRepo) ListItemsByBrand(ctx context.Context, brandID string) ([]domain.Item, error) {
	return m.listItemsByBrand(ctx, brandID)
}
func (m *mockCatalogRepo) ListAllItems(ctx context.Context) ([]domain.Item, error) {
	return m.listAllItems(ctx)
}
func (m *mockCatalogRepo) ListItemsPaged(ctx context.Context, brandID string, p domain.PaginationParams) (domain.Page[domain.Item], error) {
	return m.listItemsPaged(ctx, brandID, p)
}
func (m *mockCatalogRepo) GetItem(ctx context.Context, id string) (domain.Item, error) {
	return m.getItem(ctx, id)
}

var _ repo.CatalogRepo = (*mockCatalogRepo)(nil)

// mockDictionaryRepo is a hand-written test double for repo.DictionaryRepo.
type mockDictionaryRepo struct {
	featureLabels     func(ctx context.Context) (map[string]string, error)
	vehicleTypeLabels func(ctx context.Context) (map[string]string, error)
}

func (m *mockDictionaryRepo) FeatureLabels(ctx context.Context) (map[string]string, error) {
	return m.featureLabels(ctx)
}
func (m *mockDictionaryRepo) VehicleTypeLabels(ctx context.Context) (map[string]string, error) {
	return m.vehicleTypeLabels(ctx)
}

var _ repo.DictionaryRepo = (*mockDictionaryRepo)(nil)

// ---- fixtures --------------------------------------------------------------

var (
	garageA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	garageB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
)

func civic() domain.Snapshot {
	p := decimal.NewFromInt(2500000)
	return domain.Snapshot{ItemID: "civic-01", Name: "Civic", BrandName: "Honda", VehicleType: "sedan", Price: &p}
}

func supra() domain.Snapshot {
	p := decimal.NewFromInt(6500000)
	return domain.Snapshot{ItemID: "supra-01", Name: "Supra", BrandName: "Toyota", VehicleType: "coupe",
		FeatureTags: []string{"turbo"}, Price: &p}
}

// scenarioGarages returns A = [Empty, Civic, Empty] and B = [Supra, Empty].
func scenarioGarages() []domain.Garage {
	return []domain.Garage{
		{ID: garageA, Name: "A", Capacity: 3, Slots: domain.SlotArray{{}, civic(), {}}, Order: 1},
		{ID: garageB, Name: "B", Capacity: 2, Slots: domain.SlotArray{supra(), {}}, Order: 2},
	}
}

// memRepo is a mockGarageRepo backed by a map. It records every Save and
// fails the Save whose zero-based position equals failSaveAt (-1 = never).
type memRepo struct {
	mockGarageRepo
	mu         sync.Mutex
	garages    map[uuid.UUID]domain.Garage
	saves      []domain.Garage
	failSaveAt int
	failErr    error
}

func newMemRepo(garages ...domain.Garage) *memRepo {
	m := &memRepo{garages: map[uuid.UUID]domain.Garage{}, failSaveAt: -1}
	var order []uuid.UUID
	for _, g := range garages {
		m.garages[g.ID] = g.Clone()
		order = append(order, g.ID)
	}
	m.list = func(context.Context) ([]domain.Garage, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		out := make([]domain.Garage, 0, len(order))
		for _, id := range order {
			if g, ok := m.garages[id]; ok {
				out = append(out, g.Clone())
			}
		}
		return out, nil
	}
	m.create = func(_ context.Context, d domain.GarageDraft) (domain.Garage, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		g := domain.Garage{ID: uuid.New(), Name: d.Name, Capacity: d.Capacity, Remarks: d.Remarks,
			Slots: domain.NewSlotArray(d.Capacity), Order: len(order) + 1}
		m.garages[g.ID] = g
		order = append(order, g.ID)
		return g.Clone(), nil
	}
	m.save = func(_ context.Context, g domain.Garage) (domain.Garage, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		n := len(m.saves)
		m.saves = append(m.saves, g.Clone())
		if n == m.failSaveAt {
			return domain.Garage{}, m.failErr
		}
		if _, ok := m.garages[g.ID]; !ok {
			return domain.Garage{}, domain.ErrNotFound
		}
		m.garages[g.ID] = g.Clone()
		return g.Clone(), nil
	}
	m.delete = func(_ context.Context, id uuid.UUID) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.garages[id]; !ok {
			return domain.ErrNotFound
		}
		delete(m.garages, id)
		return nil
	}
	return m
}

func (m *memRepo) stored(id uuid.UUID) domain.Garage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.garages[id].Clone()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
