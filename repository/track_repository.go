package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MuzBot/model"
)

// TrackRepository defines persistent operations on stored tracks and the
// per-user download log.
type TrackRepository interface {
	// SaveTrack upserts the denormalized catalog copy, keyed by catalog id.
	SaveTrack(ctx context.Context, track *model.CatalogTrack) error

	// GetTrackByID returns a stored track, or ErrNotFound.
	GetTrackByID(ctx context.Context, id string) (*model.Track, error)

	// RecordDownload saves the track and marks it downloaded by the user.
	RecordDownload(ctx context.Context, userID int64, track *model.CatalogTrack) error

	// CountDownloads returns the total number of download records.
	CountDownloads(ctx context.Context) (int64, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new track repository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

// SaveTrack upserts the track row.
func (r *mysqlTrackRepository) SaveTrack(ctx context.Context, track *model.CatalogTrack) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracks (id, title, artist, duration, media_url, thumb_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title), artist = VALUES(artist), duration = VALUES(duration),
			media_url = VALUES(media_url), thumb_url = VALUES(thumb_url), updated_at = VALUES(updated_at)`,
		track.ID, track.Title, track.Artist, track.Duration, track.MediaURL, track.ThumbURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert track %s: %w", track.ID, err)
	}
	return nil
}

// GetTrackByID returns a stored track by catalog id.
func (r *mysqlTrackRepository) GetTrackByID(ctx context.Context, id string) (*model.Track, error) {
	track := &model.Track{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, artist, duration, media_url, thumb_url, created_at, updated_at
		FROM tracks WHERE id = ?`, id).Scan(
		&track.ID, &track.Title, &track.Artist, &track.Duration,
		&track.MediaURL, &track.ThumbURL, &track.CreatedAt, &track.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan track %s: %w", id, err)
	}
	return track, nil
}

// RecordDownload stores the track, then the download mark, in one
// transaction.
func (r *mysqlTrackRepository) RecordDownload(ctx context.Context, userID int64, track *model.CatalogTrack) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tracks (id, title, artist, duration, media_url, thumb_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title), artist = VALUES(artist), duration = VALUES(duration),
			media_url = VALUES(media_url), thumb_url = VALUES(thumb_url), updated_at = VALUES(updated_at)`,
		track.ID, track.Title, track.Artist, track.Duration, track.MediaURL, track.ThumbURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert track %s: %w", track.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO downloads (user_id, track_id, downloaded_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE downloaded_at = VALUES(downloaded_at)`,
		userID, track.ID, now)
	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}

	return tx.Commit()
}

// CountDownloads returns the total number of download records.
func (r *mysqlTrackRepository) CountDownloads(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM downloads").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count downloads: %w", err)
	}
	return count, nil
}
