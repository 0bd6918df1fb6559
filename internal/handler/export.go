package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/garage-inventory/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"garage_id", "garage_name", "garage_remarks", "slot_index", "occupied",
	"item_id", "vehicle_name", "brand_name", "vehicle_type", "price",
	"feature_tags", "remarks",
}

// GetExport handles GET /export.
// It returns one row per slot across all garages, empty slots included.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := "json"
	if err := queryParam(r, "format", &format); err != nil {
		requestError(w, err)
		return
	}
	if format != "json" && format != "csv" {
		requestError(w, fmt.Errorf("format must be csv or json, got %q", format))
		return
	}

	rows, err := s.garages.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	writeJSON(w, http.StatusOK, listResponse[[]domain.ExportRow]{Data: rows})
}

// writeCSV encodes rows as CSV. Feature tags within a row are pipe-separated
// ("|") to keep each slot on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(exportRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="garages.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.GarageID,
		r.GarageName,
		r.GarageRemarks,
		strconv.Itoa(r.SlotIndex),
		strconv.FormatBool(r.Occupied),
		r.ItemID,
		r.VehicleName,
		r.BrandName,
		r.VehicleType,
		r.Price,
		strings.Join(r.FeatureTags, "|"),
		r.Remarks,
	}
}
