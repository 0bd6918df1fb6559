// Package handler implements the HTTP API for the garage inventory.
// All handlers are methods on Server; Routes mounts them on a chi router.
// Methods are split into domain-specific files (garage.go, transfer.go, etc.)
// but all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/service"
)

// GarageServicer defines the garage operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type GarageServicer interface {
	List(ctx context.Context) ([]domain.Garage, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Garage, error)
	Create(ctx context.Context, draft domain.GarageDraft) (domain.Garage, error)
	UpdateRemarks(ctx context.Context, id uuid.UUID, remarks string) (domain.Garage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) []service.DeleteResult
	SetSlotRemarks(ctx context.Context, id uuid.UUID, index int, remarks string) (domain.Garage, error)
	ClearSlot(ctx context.Context, id uuid.UUID, index int) (domain.Garage, error)
	SyncFeatures(ctx context.Context) ([]uuid.UUID, error)
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// TransferServicer defines the transfer workflow operations.
type TransferServicer interface {
	Status(ctx context.Context) service.TransferStatus
	BeginFromSlot(ctx context.Context, garageID uuid.UUID, index int) (service.TransferStatus, error)
	BeginFromCatalog(ctx context.Context, itemID string) (service.TransferStatus, error)
	ChooseTargetGarage(ctx context.Context, garageID uuid.UUID) (service.TransferStatus, error)
	ChooseTargetSlot(ctx context.Context, index int) (service.TransferStatus, error)
	Confirm(ctx context.Context) (service.TransferStatus, error)
	Back(ctx context.Context) (service.TransferStatus, error)
	Cancel(ctx context.Context) service.TransferStatus
}

// CatalogServicer defines the read-only catalog and dictionary operations.
type CatalogServicer interface {
	Brands(ctx context.Context) ([]domain.Brand, error)
	BrandItems(ctx context.Context, brandID string) ([]domain.Item, error)
	Items(ctx context.Context, brandID string, page, limit int) (domain.Page[domain.Item], domain.PaginationParams, error)
	FeatureLabels(ctx context.Context) (map[string]string, error)
	VehicleTypeLabels(ctx context.Context) (map[string]string, error)
}

// Server holds the handler dependencies. Any of them may be nil, in which
// case the routes that need it are not mounted.
type Server struct {
	garages   GarageServicer
	transfers TransferServicer
	catalog   CatalogServicer
	metrics   http.Handler
}

// NewServer constructs the Server with all its dependencies.
func NewServer(garages GarageServicer, transfers TransferServicer, catalog CatalogServicer, metrics http.Handler) *Server {
	return &Server{garages: garages, transfers: transfers, catalog: catalog, metrics: metrics}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns a chi router with every endpoint. Cross-cutting middleware
// (request ID, logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	if s.garages != nil {
		r.Route("/garages", func(r chi.Router) {
			r.Get("/", s.ListGarages)
			r.Post("/", s.CreateGarage)
			r.Post("/bulk-delete", s.BulkDeleteGarages)
			r.Post("/sync-features", s.SyncFeatures)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetGarage)
				r.Patch("/", s.UpdateGarage)
				r.Delete("/", s.DeleteGarage)
				r.Patch("/slots/{index}", s.UpdateSlot)
				r.Delete("/slots/{index}", s.ClearSlot)
			})
		})
		r.Get("/export", s.GetExport)
	}

	if s.transfers != nil {
		r.Route("/transfer", func(r chi.Router) {
			r.Get("/", s.GetTransfer)
			r.Post("/", s.BeginTransfer)
			r.Delete("/", s.CancelTransfer)
			r.Put("/target-garage", s.ChooseTargetGarage)
			r.Put("/target-slot", s.ChooseTargetSlot)
			r.Post("/confirm", s.ConfirmTransfer)
			r.Post("/back", s.BackTransfer)
		})
	}

	if s.catalog != nil {
		r.Get("/catalog/brands", s.ListBrands)
		r.Get("/catalog/brands/{id}/items", s.ListBrandItems)
		r.Get("/catalog/items", s.ListItems)
		r.Get("/dictionaries/features", s.GetFeatureLabels)
		r.Get("/dictionaries/vehicle-types", s.GetVehicleTypeLabels)
	}

	return r
}

// listResponse wraps collection payloads so fields can be added later
// without breaking clients.
type listResponse[T any] struct {
	Data T `json:"data"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errBodyRequired is returned by decodeJSON for an empty body.
var errBodyRequired = errors.New("request body is required")

// decodeJSON reads the request body into dst. Unknown fields are rejected.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errBodyRequired
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errBodyRequired
		}
		return err
	}
	return nil
}
