package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/handler"
)

func catalogServer(svc *mockCatalogServicer) *handler.Server {
	return handler.NewServer(nil, nil, svc, nil)
}

func TestListBrands_200(t *testing.T) {
	svc := &mockCatalogServicer{brands: func(context.Context) ([]domain.Brand, error) {
		return []domain.Brand{{ID: "honda", Name: "ホンダ", NameEn: "Honda"}}, nil
	}}

	rec := serve(catalogServer(svc), http.MethodGet, "/catalog/brands", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"id":"honda","name":"ホンダ","name_en":"Honda"}]}`, rec.Body.String())
}

func TestListBrandItems_200(t *testing.T) {
	svc := &mockCatalogServicer{brandItems: func(_ context.Context, brandID string) ([]domain.Item, error) {
		assert.Equal(t, "honda", brandID)
		return []domain.Item{{ID: "civic-01", BrandID: "honda"}}, nil
	}}

	rec := serve(catalogServer(svc), http.MethodGet, "/catalog/brands/honda/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []domain.Item `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "civic-01", body.Data[0].ID)
}

func TestListBrandItems_EmptyIsArray(t *testing.T) {
	svc := &mockCatalogServicer{brandItems: func(context.Context, string) ([]domain.Item, error) { return nil, nil }}

	rec := serve(catalogServer(svc), http.MethodGet, "/catalog/brands/honda/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestListBrandItems_404(t *testing.T) {
	svc := &mockCatalogServicer{brandItems: func(context.Context, string) ([]domain.Item, error) {
		return nil, domain.ErrNotFound
	}}

	rec := serve(catalogServer(svc), http.MethodGet, "/catalog/brands/lotus/items", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
}

func TestListItems_PassesQueryAndReportsPagination(t *testing.T) {
	var gotBrand string
	var gotPage, gotLimit int
	svc := &mockCatalogServicer{items: func(_ context.Context, brandID string, page, limit int) (domain.Page[domain.Item], domain.PaginationParams, error) {
		gotBrand, gotPage, gotLimit = brandID, page, limit
		return domain.Page[domain.Item]{Items: []domain.Item{{ID: "civic-01"}}, Total: 41},
			domain.PaginationParams{Page: 2, Limit: 20}, nil
	}}

	rec := serve(catalogServer(svc), http.MethodGet, "/catalog/items?brand_id=honda&page=2&limit=20", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "honda", gotBrand)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 20, gotLimit)

	var body handler.ItemsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, handler.Pagination{Page: 2, Limit: 20, Total: 41}, body.Pagination)
	require.Len(t, body.Data, 1)
}

func TestListItems_NoQuery(t *testing.T) {
	svc := &mockCatalogServicer{items: func(_ context.Context, brandID string, page, limit int) (domain.Page[domain.Item], domain.PaginationParams, error) {
		assert.Empty(t, brandID)
		assert.Zero(t, page)
		assert.Zero(t, limit)
		return domain.Page[domain.Item]{}, domain.NewPaginationParams(page, limit), nil
	}}

	rec := serve(catalogServer(svc), http.MethodGet, "/catalog/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestListItems_422_BadPage(t *testing.T) {
	svc := &mockCatalogServicer{}

	rec := serve(catalogServer(svc), http.MethodGet, "/catalog/items?page=two", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDictionaries_200(t *testing.T) {
	svc := &mockCatalogServicer{
		featureLabels:     func(context.Context) (map[string]string, error) { return map[string]string{"turbo": "Turbo"}, nil },
		vehicleTypeLabels: func(context.Context) (map[string]string, error) { return map[string]string{"sedan": "Sedan"}, nil },
	}

	rec := serve(catalogServer(svc), http.MethodGet, "/dictionaries/features", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"turbo":"Turbo"}}`, rec.Body.String())

	rec = serve(catalogServer(svc), http.MethodGet, "/dictionaries/vehicle-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"sedan":"Sedan"}}`, rec.Body.String())
}

func TestDictionaries_500(t *testing.T) {
	svc := &mockCatalogServicer{featureLabels: func(context.Context) (map[string]string, error) {
		return nil, errors.New("no such table: feature_type_dict")
	}}

	rec := serve(catalogServer(svc), http.MethodGet, "/dictionaries/features", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
