// Package store persists now-playing records to a local sqlite
// database: one current record per station plus an append-only history
// of distinct tracks. The dispatcher treats this store as best-effort;
// it keeps serving in-memory results when writes fail.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// Store wraps the sqlite database. Writes go through a single-conn
// handle; sqlite locks the file per writer anyway and a capped pool
// avoids SQLITE_BUSY churn.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// Open opens (and creates if needed) the database at dbPath
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS now_playing (
			station_id   TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			artist       TEXT NOT NULL,
			album        TEXT NOT NULL DEFAULT '',
			artwork      TEXT NOT NULL DEFAULT '',
			duration     INTEGER NOT NULL DEFAULT 0,
			is_ad        INTEGER NOT NULL DEFAULT 0,
			is_live      INTEGER NOT NULL DEFAULT 0,
			station_name TEXT NOT NULL,
			updated_at   TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS play_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			station_id TEXT NOT NULL,
			title      TEXT NOT NULL,
			artist     TEXT NOT NULL,
			is_ad      INTEGER NOT NULL DEFAULT 0,
			first_seen TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_station
			ON play_history(station_id, first_seen DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close closes both database handles
func (s *Store) Close() error {
	var firstErr error
	if s.readDB != nil {
		if err := s.readDB.Close(); err != nil {
			firstErr = err
		}
	}
	if s.writeDB != nil {
		if err := s.writeDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetCurrentTrack returns the persisted record for a station, or nil
// when none exists yet
func (s *Store) GetCurrentTrack(ctx context.Context, stationID string) (*common.TrackMetadata, error) {
	row := s.readDB.QueryRowContext(ctx, `
		SELECT title, artist, album, artwork, duration, is_ad, is_live, station_name, updated_at
		FROM now_playing WHERE station_id = ?`, stationID)

	var track common.TrackMetadata
	track.StationID = stationID
	err := row.Scan(&track.Title, &track.Artist, &track.Album, &track.Artwork,
		&track.Duration, &track.IsAd, &track.IsLive, &track.StationName, &track.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading now playing: %w", err)
	}
	return &track, nil
}

// UpdateNowPlaying upserts the station's current record and appends a
// history row when the track changed since the last write. Upserts are
// last-writer-wins; concurrent polls for the same station tolerate the
// race.
func (s *Store) UpdateNowPlaying(ctx context.Context, track common.TrackMetadata) error {
	previous, err := s.GetCurrentTrack(ctx, track.StationID)
	if err != nil {
		return err
	}

	_, err = s.writeDB.ExecContext(ctx, `
		INSERT INTO now_playing
			(station_id, title, artist, album, artwork, duration, is_ad, is_live, station_name, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			artwork = excluded.artwork,
			duration = excluded.duration,
			is_ad = excluded.is_ad,
			is_live = excluded.is_live,
			station_name = excluded.station_name,
			updated_at = excluded.updated_at`,
		track.StationID, track.Title, track.Artist, track.Album, track.Artwork,
		track.Duration, track.IsAd, track.IsLive, track.StationName, track.Timestamp)
	if err != nil {
		return fmt.Errorf("upserting now playing: %w", err)
	}

	if previous == nil || previous.Title != track.Title || previous.Artist != track.Artist {
		_, err = s.writeDB.ExecContext(ctx, `
			INSERT INTO play_history (station_id, title, artist, is_ad, first_seen)
			VALUES (?, ?, ?, ?, ?)`,
			track.StationID, track.Title, track.Artist, track.IsAd, track.Timestamp)
		if err != nil {
			return fmt.Errorf("appending history: %w", err)
		}
	}

	return nil
}

// RecentHistory returns the most recent distinct tracks for a station,
// newest first
func (s *Store) RecentHistory(ctx context.Context, stationID string, limit int) ([]common.TrackMetadata, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.readDB.QueryContext(ctx, `
		SELECT title, artist, is_ad, first_seen
		FROM play_history
		WHERE station_id = ?
		ORDER BY first_seen DESC
		LIMIT ?`, stationID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var out []common.TrackMetadata
	for rows.Next() {
		track := common.TrackMetadata{StationID: stationID}
		var firstSeen time.Time
		if err := rows.Scan(&track.Title, &track.Artist, &track.IsAd, &firstSeen); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		track.Timestamp = firstSeen
		out = append(out, track)
	}
	return out, rows.Err()
}
