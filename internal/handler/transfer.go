package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/garage-inventory/internal/domain"
	"github.com/pkordes/garage-inventory/internal/service"
	"github.com/pkordes/garage-inventory/internal/transfer"
)

// BeginTransferRequest is the body of POST /transfer. Send either
// garage_id and index (move a placed vehicle) or item_id (add from catalog).
type BeginTransferRequest struct {
	GarageID *uuid.UUID `json:"garage_id,omitempty"`
	Index    *int       `json:"index,omitempty"`
	ItemID   string     `json:"item_id,omitempty"`
}

// TargetGarageRequest is the body of PUT /transfer/target-garage.
type TargetGarageRequest struct {
	GarageID *uuid.UUID `json:"garage_id"`
}

// TargetSlotRequest is the body of PUT /transfer/target-slot.
type TargetSlotRequest struct {
	Index *int `json:"index"`
}

// TransferResponse describes the workflow after a step.
type TransferResponse struct {
	State    transfer.State   `json:"state"`
	Intent   *IntentResponse  `json:"intent,omitempty"`
	Conflict *domain.Snapshot `json:"conflict,omitempty"`
	Commit   *CommitResponse  `json:"commit,omitempty"`
}

// IntentResponse is the in-flight (or just committed) transfer.
type IntentResponse struct {
	Source         SourceResponse      `json:"source"`
	Snapshot       domain.Snapshot     `json:"snapshot"`
	TargetGarageID *uuid.UUID          `json:"target_garage_id,omitempty"`
	TargetIndex    *int                `json:"target_index,omitempty"`
	Resolution     transfer.Resolution `json:"resolution"`
}

// SourceResponse names where the transferred vehicle comes from.
// Kind is "slot" or "catalog".
type SourceResponse struct {
	Kind     string     `json:"kind"`
	GarageID *uuid.UUID `json:"garage_id,omitempty"`
	Index    *int       `json:"index,omitempty"`
	ItemID   string     `json:"item_id,omitempty"`
}

// CommitResponse reports a committed placement and the saved garages.
type CommitResponse struct {
	Kind    transfer.CommitKind `json:"kind"`
	Garages []GarageResponse    `json:"garages"`
}

// GetTransfer handles GET /transfer.
func (s *Server) GetTransfer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTransferResponse(s.transfers.Status(r.Context())))
}

// BeginTransfer handles POST /transfer.
func (s *Server) BeginTransfer(w http.ResponseWriter, r *http.Request) {
	var body BeginTransferRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}

	fromSlot := body.GarageID != nil || body.Index != nil
	var (
		st  service.TransferStatus
		err error
	)
	switch {
	case fromSlot && body.ItemID != "":
		requestError(w, errors.New("send either garage_id and index, or item_id"))
		return
	case fromSlot:
		if body.GarageID == nil || body.Index == nil {
			requestError(w, errors.New("garage_id and index are both required"))
			return
		}
		st, err = s.transfers.BeginFromSlot(r.Context(), *body.GarageID, *body.Index)
	case body.ItemID != "":
		st, err = s.transfers.BeginFromCatalog(r.Context(), body.ItemID)
	default:
		requestError(w, errors.New("garage_id and index, or item_id, is required"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransferResponse(st))
}

// ChooseTargetGarage handles PUT /transfer/target-garage.
func (s *Server) ChooseTargetGarage(w http.ResponseWriter, r *http.Request) {
	var body TargetGarageRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	if body.GarageID == nil {
		requestError(w, errors.New("garage_id is required"))
		return
	}

	st, err := s.transfers.ChooseTargetGarage(r.Context(), *body.GarageID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransferResponse(st))
}

// ChooseTargetSlot handles PUT /transfer/target-slot. The response carries
// either a commit (empty target) or the conflicting snapshot.
func (s *Server) ChooseTargetSlot(w http.ResponseWriter, r *http.Request) {
	var body TargetSlotRequest
	if err := decodeJSON(r, &body); err != nil {
		requestError(w, err)
		return
	}
	if body.Index == nil {
		requestError(w, errors.New("index is required"))
		return
	}

	st, err := s.transfers.ChooseTargetSlot(r.Context(), *body.Index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransferResponse(st))
}

// ConfirmTransfer handles POST /transfer/confirm.
func (s *Server) ConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	st, err := s.transfers.Confirm(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransferResponse(st))
}

// BackTransfer handles POST /transfer/back.
func (s *Server) BackTransfer(w http.ResponseWriter, r *http.Request) {
	st, err := s.transfers.Back(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransferResponse(st))
}

// CancelTransfer handles DELETE /transfer. It always succeeds.
func (s *Server) CancelTransfer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTransferResponse(s.transfers.Cancel(r.Context())))
}

// --- mapping helpers --------------------------------------------------------

func toTransferResponse(st service.TransferStatus) TransferResponse {
	out := TransferResponse{State: st.State, Conflict: st.Conflict}
	if st.Intent != nil {
		out.Intent = toIntentResponse(*st.Intent)
	}
	if st.Kind != "" {
		out.Commit = &CommitResponse{Kind: st.Kind, Garages: toGarageResponses(st.Garages)}
	}
	return out
}

func toIntentResponse(in transfer.Intent) *IntentResponse {
	out := &IntentResponse{
		Snapshot:       in.Snapshot,
		TargetGarageID: in.TargetGarageID,
		TargetIndex:    in.TargetIndex,
		Resolution:     in.Resolution,
	}
	if in.Source.FromSlot {
		id, idx := in.Source.Slot.GarageID, in.Source.Slot.Index
		out.Source = SourceResponse{Kind: "slot", GarageID: &id, Index: &idx}
	} else {
		out.Source = SourceResponse{Kind: "catalog", ItemID: in.Snapshot.ItemID}
	}
	return out
}
