package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MuzBot/model"
)

// CollectionRepository defines persistent operations on user collections.
type CollectionRepository interface {
	// CreateCollection creates a collection. Returns ErrDuplicateName when
	// the owner already has a collection with that name.
	CreateCollection(ctx context.Context, ownerID int64, name string) (int64, error)

	// GetCollectionByID returns the collection, or ErrNotFound.
	GetCollectionByID(ctx context.Context, id int64) (*model.Collection, error)

	// ListCollections returns the owner's collections with track counts,
	// newest first.
	ListCollections(ctx context.Context, ownerID int64) ([]*model.CollectionSummary, error)

	// AddTrack durably stores the track descriptor, then links it to the
	// collection. Idempotent; returns ErrNotFound for a missing collection.
	AddTrack(ctx context.Context, collectionID int64, track *model.CatalogTrack) error

	// Contains reports whether the track is already in the collection.
	Contains(ctx context.Context, collectionID int64, trackID string) (bool, error)

	// DeleteCollection removes the collection and its membership edges.
	DeleteCollection(ctx context.Context, id int64) error

	// CountCollections returns the total number of collections.
	CountCollections(ctx context.Context) (int64, error)
}

// mysqlCollectionRepository implements CollectionRepository for MySQL.
type mysqlCollectionRepository struct {
	db *sql.DB
}

// NewMySQLCollectionRepository creates a new collection repository.
func NewMySQLCollectionRepository(db *sql.DB) CollectionRepository {
	return &mysqlCollectionRepository{db: db}
}

// CreateCollection creates a collection for the owner. The pre-check keeps
// the common duplicate case cheap; the unique index catches the race where
// two concurrent creates both pass the check, and that loser surfaces as
// ErrDuplicateName as well.
func (r *mysqlCollectionRepository) CreateCollection(ctx context.Context, ownerID int64, name string) (int64, error) {
	var existingID int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM collections WHERE owner_id = ? AND name = ?",
		ownerID, name).Scan(&existingID)
	if err == nil {
		return 0, ErrDuplicateName
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to check for duplicate collection: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO collections (owner_id, name, created_at) VALUES (?, ?, ?)",
		ownerID, name, time.Now())
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, ErrDuplicateName
		}
		return 0, fmt.Errorf("failed to insert collection: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get collection insert ID: %w", err)
	}
	return id, nil
}

// GetCollectionByID returns the collection by its id.
func (r *mysqlCollectionRepository) GetCollectionByID(ctx context.Context, id int64) (*model.Collection, error) {
	collection := &model.Collection{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, owner_id, name, created_at FROM collections WHERE id = ?",
		id).Scan(&collection.ID, &collection.OwnerID, &collection.Name, &collection.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan collection %d: %w", id, err)
	}
	return collection, nil
}

// ListCollections returns the owner's collections with their track counts.
func (r *mysqlCollectionRepository) ListCollections(ctx context.Context, ownerID int64) ([]*model.CollectionSummary, error) {
	query := `
		SELECT c.id, c.owner_id, c.name, c.created_at, COUNT(ct.track_id)
		FROM collections c
		LEFT JOIN collection_tracks ct ON ct.collection_id = c.id
		WHERE c.owner_id = ?
		GROUP BY c.id, c.owner_id, c.name, c.created_at
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var summaries []*model.CollectionSummary
	for rows.Next() {
		s := &model.CollectionSummary{}
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.CreatedAt, &s.TrackCount); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// AddTrack stores the track and links it to the collection in a single
// transaction, so a failed link never leaves an orphaned edge and a stored
// track is never referenced before it exists.
func (r *mysqlCollectionRepository) AddTrack(ctx context.Context, collectionID int64, track *model.CatalogTrack) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the collection row so a concurrent delete cannot remove it
	// between this check and the link insert.
	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM collections WHERE id = ? FOR UPDATE", collectionID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check collection %d: %w", collectionID, err)
	}

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

	// INSERT IGNORE keeps membership idempotent: adding twice is a no-op.
	_, err = tx.ExecContext(ctx,
		"INSERT IGNORE INTO collection_tracks (collection_id, track_id, added_at) VALUES (?, ?, ?)",
		collectionID, track.ID, now)
	if err != nil {
		return fmt.Errorf("failed to link track %s to collection %d: %w", track.ID, collectionID, err)
	}

	return tx.Commit()
}

// Contains reports whether the track is already in the collection.
func (r *mysqlCollectionRepository) Contains(ctx context.Context, collectionID int64, trackID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM collection_tracks WHERE collection_id = ? AND track_id = ?",
		collectionID, trackID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

// DeleteCollection removes the collection and cascades to its edges.
func (r *mysqlCollectionRepository) DeleteCollection(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM collection_tracks WHERE collection_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete collection edges: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete collection %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// CountCollections returns the total number of collections.
func (r *mysqlCollectionRepository) CountCollections(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return count, nil
}
