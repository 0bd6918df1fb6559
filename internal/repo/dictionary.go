package repo

import (
	"context"
	"fmt"
	"strings"
)

// DictionaryRepo maps opaque codes to display labels. It is used only to
// annotate responses; placement logic never consults it.
type DictionaryRepo interface {
	// FeatureLabels returns feature-tag code → label.
	FeatureLabels(ctx context.Context) (map[string]string, error)

	// VehicleTypeLabels returns vehicle-type code → label.
	VehicleTypeLabels(ctx context.Context) (map[string]string, error)
}

type sqliteDictionaryRepo struct {
	db sqlDB
}

// NewDictionaryRepo constructs a DictionaryRepo over the SQLite catalog file.
func NewDictionaryRepo(db sqlDB) DictionaryRepo {
	return &sqliteDictionaryRepo{db: db}
}

func (r *sqliteDictionaryRepo) FeatureLabels(ctx context.Context) (map[string]string, error) {
	labels, err := r.load(ctx, `SELECT dict_key, dict_value FROM feature_type_dict`)
	if err != nil {
		return nil, fmt.Errorf("repo.DictionaryRepo.FeatureLabels: %w", err)
	}
	return labels, nil
}

func (r *sqliteDictionaryRepo) VehicleTypeLabels(ctx context.Context) (map[string]string, error) {
	labels, err := r.load(ctx, `SELECT dict_key, dict_value FROM vehicle_type_dict`)
	if err != nil {
		return nil, fmt.Errorf("repo.DictionaryRepo.VehicleTypeLabels: %w", err)
	}
	return labels, nil
}

// load reads a key/value table. Keys and values are trimmed; rows with an
// empty key are skipped.
func (r *sqliteDictionaryRepo) load(ctx context.Context, q string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if k = strings.TrimSpace(k); k != "" {
			labels[k] = strings.TrimSpace(v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return labels, nil
}
