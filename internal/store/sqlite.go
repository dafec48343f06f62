// Package store persists resort records in sqlite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"medi-skimap/internal/records"

	_ "modernc.org/sqlite"
)

// ArtifactWriter writes the map artifacts for a freshly inserted resort and
// returns the public image URL.
type ArtifactWriter func(resortID int64) (imageURL string, err error)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows one writer; resort loads share this connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &Store{db: db, logger: logger.With("component", "store")}
	s.logger.Debug("database initialized", "path", path)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResort inserts the resort and all of its records in one transaction.
// write runs inside the transaction once the resort id is known; if it or
// any later insert fails nothing is committed.
func (s *Store) SaveResort(ctx context.Context, resort records.ResortRecord, set records.Set, write ArtifactWriter) (int64, error) {
	var id int64
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertResort,
			resort.Name, resort.Location, resort.Description, resort.Website, resort.Status,
			resort.SnowDepth, resort.WeatherConditions, resort.TotalLifts, resort.OpenLifts, resort.ImageURL, resort.Timezone,
			resort.Bounds.MinLon, resort.Bounds.MinLat, resort.Bounds.MaxLon, resort.Bounds.MaxLat,
			resort.CenterLat, resort.CenterLon,
		)
		if err != nil {
			return fmt.Errorf("failed to insert resort: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read resort id: %w", err)
		}

		if write != nil {
			imageURL, err := write(id)
			if err != nil {
				return fmt.Errorf("failed to write artifacts: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `UPDATE ski_resorts SET image_url = ? WHERE id = ?`, imageURL, id); err != nil {
				return fmt.Errorf("failed to update resort image: %w", err)
			}
		}

		stamped := set.Clone()
		stamped.WithResortID(id)
		return insertRecords(ctx, tx, stamped)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("saved resort",
		"resort_id", id,
		"name", resort.Name,
		"lifts", len(set.Lifts),
		"pistes", len(set.Pistes),
		"water_bodies", len(set.WaterBodies),
	)
	return id, nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, set records.Set) error {
	for _, l := range set.Lifts {
		if _, err := tx.ExecContext(ctx, insertLift,
			l.ResortID, l.OsmID, l.Name, l.Type, l.Difficulty, l.Status, l.Capacity, l.CurrentLoad,
			l.Description, l.ImageURL, l.WebcamURL, l.WaitTime, records.PathJSON(l.Path), l.GeoPolyline,
		); err != nil {
			return fmt.Errorf("failed to insert lift %d: %w", l.OsmID, err)
		}
	}
	for _, p := range set.Pistes {
		if _, err := tx.ExecContext(ctx, insertPiste,
			p.ResortID, p.OsmID, p.Name, p.Type, p.Difficulty, records.PathJSON(p.Path), p.GeoPolyline,
		); err != nil {
			return fmt.Errorf("failed to insert piste %d: %w", p.OsmID, err)
		}
	}
	for _, w := range set.WaterBodies {
		if _, err := tx.ExecContext(ctx, insertWater,
			w.ResortID, w.OsmID, w.Name, w.Type, records.PathJSON(w.Path), records.HolesJSON(w.Holes),
		); err != nil {
			return fmt.Errorf("failed to insert water body %d: %w", w.OsmID, err)
		}
	}
	return nil
}

// transaction executes fn within a database transaction
func (s *Store) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
