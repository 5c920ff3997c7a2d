package listings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists listings.
type Repository interface {
	Create(ctx context.Context, listing Listing) error
	Get(ctx context.Context, id string) (Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Listing, error)
	MarkSold(ctx context.Context, id string) error
}

// PostgresRepository stores listings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a listing record.
func (r *PostgresRepository) Create(ctx context.Context, listing Listing) error {
	listingID, err := uuid.Parse(listing.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(listing.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO listings (id, owner_id, title, description, price_minor, currency, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, listingID, ownerID, listing.Title, listing.Description,
		listing.PriceMinor, listing.Currency, listing.Status, listing.CreatedAt.UTC())
	return err
}

// Get fetches a listing by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Listing, error) {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return Listing{}, ErrListingNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, title, description, price_minor, currency, status, created_at
        FROM listings WHERE id = $1`, listingID)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrListingNotFound
	}
	return l, err
}

// ListByOwner returns an owner's listings, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Listing, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return []Listing{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, title, description, price_minor, currency, status, created_at
        FROM listings WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MarkSold flips an active listing to sold.
func (r *PostgresRepository) MarkSold(ctx context.Context, id string) error {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return ErrListingNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE listings SET status = $1 WHERE id = $2 AND status = $3`, StatusSold, listingID, StatusActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrListingNotActive
	}
	return nil
}

func scanListing(row pgx.Row) (Listing, error) {
	var (
		l         Listing
		idVal     uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&idVal, &ownerID, &l.Title, &l.Description, &l.PriceMinor, &l.Currency, &l.Status, &createdAt); err != nil {
		return Listing{}, err
	}
	l.ID = idVal.String()
	l.OwnerID = ownerID.String()
	l.CreatedAt = createdAt.UTC()
	return l, nil
}
