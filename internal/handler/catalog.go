package handler

import (
	"net/http"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// Pagination describes the page returned by a paged list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ItemsResponse is the body of GET /catalog/items.
type ItemsResponse struct {
	Data       []domain.Item `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// ListBrands handles GET /catalog/brands.
func (s *Server) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.catalog.Brands(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	writeJSON(w, http.StatusOK, listResponse[[]domain.Brand]{Data: brands})
}

// ListBrandItems handles GET /catalog/brands/{id}/items: the full,
// unpaged vehicle list of one brand.
func (s *Server) ListBrandItems(w http.ResponseWriter, r *http.Request) {
	var brandID string
	if err := bindPath(r, "id", &brandID); err != nil {
		requestError(w, err)
		return
	}

	items, err := s.catalog.BrandItems(r.Context(), brandID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, listResponse[[]domain.Item]{Data: items})
}

// ListItems handles GET /catalog/items.
// Supports ?brand_id=, ?page= and ?limit= (defaults: page=1, limit=50, max=200).
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	var (
		brandID     string
		page, limit int
	)
	for name, dst := range map[string]any{"brand_id": &brandID, "page": &page, "limit": &limit} {
		if err := queryParam(r, name, dst); err != nil {
			requestError(w, err)
			return
		}
	}

	items, params, err := s.catalog.Items(r.Context(), brandID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := items.Items
	if data == nil {
		data = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, ItemsResponse{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: items.Total},
	})
}

// GetFeatureLabels handles GET /dictionaries/features.
func (s *Server) GetFeatureLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := s.catalog.FeatureLabels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[map[string]string]{Data: labels})
}

// GetVehicleTypeLabels handles GET /dictionaries/vehicle-types.
func (s *Server) GetVehicleTypeLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := s.catalog.VehicleTypeLabels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[map[string]string]{Data: labels})
}
