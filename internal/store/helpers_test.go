package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"medi-skimap/internal/records"
)

// ResortCount returns the number of stored resorts.
func (s *Store) ResortCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ski_resorts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count resorts: %w", err)
	}
	return n, nil
}

// WaterBodies reads the water bodies of one resort ordered by OSM id.
func (s *Store) WaterBodies(ctx context.Context, resortID int64) ([]records.WaterRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resort_id, osm_id, name, type, path, holes
		FROM water_bodies WHERE resort_id = ? ORDER BY osm_id`, resortID)
	if err != nil {
		return nil, fmt.Errorf("failed to query water bodies: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var out []records.WaterRecord
	for rows.Next() {
		var w records.WaterRecord
		var path, holes string
		if err := rows.Scan(&w.ResortID, &w.OsmID, &w.Name, &w.Type, &path, &holes); err != nil {
			return nil, fmt.Errorf("failed to scan water body: %w", err)
		}
		if err := json.Unmarshal([]byte(path), &w.Path); err != nil {
			return nil, fmt.Errorf("failed to decode path of water body %d: %w", w.OsmID, err)
		}
		if err := json.Unmarshal([]byte(holes), &w.Holes); err != nil {
			return nil, fmt.Errorf("failed to decode holes of water body %d: %w", w.OsmID, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate water bodies: %w", err)
	}
	return out, nil
}
