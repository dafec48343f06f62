package store

const schema = `
CREATE TABLE IF NOT EXISTS ski_resorts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	location TEXT,
	description TEXT,
	website_url TEXT,
	status TEXT NOT NULL DEFAULT 'open',
	snow_depth INTEGER NOT NULL DEFAULT 0,
	weather_conditions TEXT NOT NULL DEFAULT 'unknown',
	total_lifts INTEGER NOT NULL DEFAULT 0,
	open_lifts INTEGER NOT NULL DEFAULT 0,
	image_url TEXT,
	timezone TEXT,
	min_lon REAL,
	min_lat REAL,
	max_lon REAL,
	max_lat REAL,
	center_lat REAL,
	center_lon REAL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ski_lifts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	resort_id INTEGER NOT NULL REFERENCES ski_resorts(id) ON DELETE CASCADE,
	osm_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT,
	difficulty TEXT,
	status TEXT,
	capacity INTEGER,
	current_load INTEGER,
	description TEXT,
	image_url TEXT,
	webcam_url TEXT,
	wait_time INTEGER,
	path TEXT NOT NULL,
	geo_polyline TEXT
);

CREATE TABLE IF NOT EXISTS pistes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	resort_id INTEGER NOT NULL REFERENCES ski_resorts(id) ON DELETE CASCADE,
	osm_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT,
	difficulty TEXT,
	path TEXT NOT NULL,
	geo_polyline TEXT
);

CREATE TABLE IF NOT EXISTS water_bodies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	resort_id INTEGER NOT NULL REFERENCES ski_resorts(id) ON DELETE CASCADE,
	osm_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT,
	path TEXT NOT NULL,
	holes TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_ski_lifts_resort ON ski_lifts(resort_id);
CREATE INDEX IF NOT EXISTS idx_pistes_resort ON pistes(resort_id);
CREATE INDEX IF NOT EXISTS idx_water_bodies_resort ON water_bodies(resort_id);
`

const insertResort = `
INSERT INTO ski_resorts (
	name, location, description, website_url, status, snow_depth, weather_conditions,
	total_lifts, open_lifts, image_url, timezone,
	min_lon, min_lat, max_lon, max_lat, center_lat, center_lon
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertLift = `
INSERT INTO ski_lifts (
	resort_id, osm_id, name, type, difficulty, status, capacity, current_load,
	description, image_url, webcam_url, wait_time, path, geo_polyline
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertPiste = `
INSERT INTO pistes (resort_id, osm_id, name, type, difficulty, path, geo_polyline)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertWater = `
INSERT INTO water_bodies (resort_id, osm_id, name, type, path, holes)
VALUES (?, ?, ?, ?, ?, ?)`
