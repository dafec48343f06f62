package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"medi-skimap/internal/records"
	"medi-skimap/internal/types"
)

// Resort reads one stored resort. It returns ErrNotFound for an unknown id.
func (s *Store) Resort(ctx context.Context, id int64) (*records.ResortRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, location, description, website_url, status, snow_depth, weather_conditions,
			total_lifts, open_lifts,
			image_url, timezone, min_lon, min_lat, max_lon, max_lat, center_lat, center_lon
		FROM ski_resorts WHERE id = ?`, id)

	var r records.ResortRecord
	var location, description, website, imageURL, timezone sql.NullString
	err := row.Scan(&r.ID, &r.Name, &location, &description, &website, &r.Status, &r.SnowDepth, &r.WeatherConditions, &r.TotalLifts, &r.OpenLifts,
		&imageURL, &timezone, &r.Bounds.MinLon, &r.Bounds.MinLat, &r.Bounds.MaxLon, &r.Bounds.MaxLat,
		&r.CenterLat, &r.CenterLon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: resort %d", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resort %d: %w", id, err)
	}

	r.Location = location.String
	r.Description = description.String
	r.Website = website.String
	r.ImageURL = imageURL.String
	r.Timezone = timezone.String
	return &r, nil
}

// Lifts reads the lifts of one resort ordered by OSM id.
func (s *Store) Lifts(ctx context.Context, resortID int64) ([]records.LiftRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resort_id, osm_id, name, type, difficulty, status, capacity, current_load,
			description, image_url, webcam_url, wait_time, path, geo_polyline
		FROM ski_lifts WHERE resort_id = ? ORDER BY osm_id`, resortID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lifts: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var lifts []records.LiftRecord
	for rows.Next() {
		var l records.LiftRecord
		var path string
		if err := rows.Scan(&l.ResortID, &l.OsmID, &l.Name, &l.Type, &l.Difficulty, &l.Status, &l.Capacity,
			&l.CurrentLoad, &l.Description, &l.ImageURL, &l.WebcamURL, &l.WaitTime, &path, &l.GeoPolyline); err != nil {
			return nil, fmt.Errorf("failed to scan lift: %w", err)
		}
		if err := json.Unmarshal([]byte(path), &l.Path); err != nil {
			return nil, fmt.Errorf("failed to decode path of lift %d: %w", l.OsmID, err)
		}
		lifts = append(lifts, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lifts: %w", err)
	}
	return lifts, nil
}
