package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// CreateGarageRequest is the body of POST /garages.
type CreateGarageRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Remarks  string `json:"remarks"`
}

// RemarksRequest is the body of PATCH /garages/{id} and
// PATCH /garages/{id}/slots/{index}. Remarks is required; send "" to clear.
type RemarksRequest struct {
	Remarks *string `json:"remarks"`
}

// BulkDeleteRequest is the body of POST /garages/bulk-delete.
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// BulkDeleteResult is one entry of the bulk-delete response.
type BulkDeleteResult struct {
	ID      uuid.UUID    `json:"id"`
	Deleted bool         `json:"deleted"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// GarageResponse is a garage plus its number of occupied slots, shown as
// "occupied/capacity" when picking a target.
type GarageResponse struct {
	domain.Garage
	Occupied int `json:"occupied"`
}

// SyncFeaturesResponse lists the garages whose slots changed.
type SyncFeaturesResponse struct {
	Changed []uuid.UUID `json:"changed"`
}

// ListGarages handles GET /garages.
func (s *Server) ListGarages(w http.ResponseWriter, r *http.Request) {
	garages, err := s.garages.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[[]GarageResponse]{Data: toGarageResponses(garages)})
}

// CreateGarage handles POST /garages.
func (s *Server) CreateGarage(w http.ResponseWriter, r *http.Request) {
	var body CreateGarageRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}

	created, err := s.garages.Create(r.Context(), domain.GarageDraft{
		Name:     body.Name,
		Capacity: body.Capacity,
		Remarks:  body.Remarks,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGarageResponse(created))
}

// GetGarage handles GET /garages/{id}.
func (s *Server) GetGarage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		requestError(w, err)
		return
	}

	g, err := s.garages.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGarageResponse(g))
}

// UpdateGarage handles PATCH /garages/{id}. Only remarks are editable.
func (s *Server) UpdateGarage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		requestError(w, err)
		return
	}
	remarks, err := decodeRemarks(r)
	if err != nil {
		requestError(w, err)
		return
	}

	g, err := s.garages.UpdateRemarks(r.Context(), id, remarks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGarageResponse(g))
}

// DeleteGarage handles DELETE /garages/{id}.
func (s *Server) DeleteGarage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		requestError(w, err)
		return
	}

	if err := s.garages.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteGarages handles POST /garages/bulk-delete.
// It always answers 200; each entry reports its own outcome.
func (s *Server) BulkDeleteGarages(w http.ResponseWriter, r *http.Request) {
	var body BulkDeleteRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	if len(body.IDs) == 0 {
		requestError(w, errors.New("ids must not be empty"))
		return
	}

	results := s.garages.DeleteMany(r.Context(), body.IDs)
	out := make([]BulkDeleteResult, len(results))
	for i, res := range results {
		out[i] = BulkDeleteResult{ID: res.ID, Deleted: res.Err == nil}
		if res.Err != nil {
			_, code := classify(res.Err)
			out[i].Error = &ErrorDetail{Code: code, Message: unwrapMessage(res.Err)}
		}
	}
	writeJSON(w, http.StatusOK, listResponse[[]BulkDeleteResult]{Data: out})
}

// SyncFeatures handles POST /garages/sync-features.
func (s *Server) SyncFeatures(w http.ResponseWriter, r *http.Request) {
	changed, err := s.garages.SyncFeatures(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if changed == nil {
		changed = []uuid.UUID{}
	}
	writeJSON(w, http.StatusOK, SyncFeaturesResponse{Changed: changed})
}

// UpdateSlot handles PATCH /garages/{id}/slots/{index}: edits the remarks of
// an occupied slot.
func (s *Server) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	id, index, err := slotParams(r)
	if err != nil {
		requestError(w, err)
		return
	}
	remarks, err := decodeRemarks(r)
	if err != nil {
		requestError(w, err)
		return
	}

	g, err := s.garages.SetSlotRemarks(r.Context(), id, index, remarks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGarageResponse(g))
}

// ClearSlot handles DELETE /garages/{id}/slots/{index}: removes the vehicle.
func (s *Server) ClearSlot(w http.ResponseWriter, r *http.Request) {
	id, index, err := slotParams(r)
	if err != nil {
		requestError(w, err)
		return
	}

	g, err := s.garages.ClearSlot(r.Context(), id, index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGarageResponse(g))
}

// --- mapping helpers --------------------------------------------------------

func toGarageResponse(g domain.Garage) GarageResponse {
	return GarageResponse{Garage: g, Occupied: domain.OccupiedCount(g.Slots)}
}

func toGarageResponses(garages []domain.Garage) []GarageResponse {
	out := make([]GarageResponse, len(garages))
	for i, g := range garages {
		out[i] = toGarageResponse(g)
	}
	return out
}

func slotParams(r *http.Request) (uuid.UUID, int, error) {
	id, err := pathUUID(r, "id")
	if err != nil {
		return uuid.Nil, 0, err
	}
	index, err := pathInt(r, "index")
	if err != nil {
		return uuid.Nil, 0, err
	}
	return id, index, nil
}

func decodeRemarks(r *http.Request) (string, error) {
	var body RemarksRequest
	if err := decodeJSON(r, &body); err != nil {
		return "", err
	}
	if body.Remarks == nil {
		return "", errors.New("remarks is required")
	}
	return *body.Remarks, nil
}
