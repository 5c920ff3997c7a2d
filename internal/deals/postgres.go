package deals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository persists deals in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a Postgres-backed deal store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const dealColumns = `id, client_tx_id, listing_id, seller_id, buyer_id, amount_minor, currency, status, completed_at`

// Record inserts the deal unless its client transaction id is already known,
// in which case the stored deal is returned with ErrDuplicateDeal.
func (r *PostgresRepository) Record(ctx context.Context, deal Deal) (Deal, error) {
	ids, err := parseIDs(deal.ID, deal.ListingID, deal.SellerID, deal.BuyerID)
	if err != nil {
		return Deal{}, err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Deal{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	cmd, err := tx.Exec(ctx, `INSERT INTO deals (`+dealColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (client_tx_id) DO NOTHING`,
		ids[0], deal.ClientTxID, ids[1], ids[2], ids[3], deal.AmountMinor, deal.Currency, deal.Status, deal.CompletedAt.UTC())
	if err != nil {
		return Deal{}, err
	}
	if cmd.RowsAffected() == 0 {
		existing, err := scanDeal(tx.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE client_tx_id = $1`, deal.ClientTxID))
		if err != nil {
			return Deal{}, err
		}
		return existing, ErrDuplicateDeal
	}

	if err := tx.Commit(ctx); err != nil {
		return Deal{}, err
	}
	return deal, nil
}

// Get fetches a deal by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Deal, error) {
	dealID, err := uuid.Parse(id)
	if err != nil {
		return Deal{}, ErrDealNotFound
	}
	return scanDeal(r.db.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, dealID))
}

// FindByClientTxID fetches a deal by its client transaction id.
func (r *PostgresRepository) FindByClientTxID(ctx context.Context, clientTxID string) (Deal, error) {
	return scanDeal(r.db.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE client_tx_id = $1`, clientTxID))
}

// CountCompleted counts completed deals on either side for the user.
func (r *PostgresRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, nil
	}
	const query = `
        SELECT COUNT(*)
        FROM deals
        WHERE status = $1 AND (seller_id = $2 OR buyer_id = $2)`
	var count int
	if err := r.db.QueryRow(ctx, query, StatusCompleted, uid).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func parseIDs(values ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func scanDeal(row pgx.Row) (Deal, error) {
	var (
		d                                Deal
		id, listingID, sellerID, buyerID uuid.UUID
	)
	if err := row.Scan(&id, &d.ClientTxID, &listingID, &sellerID, &buyerID, &d.AmountMinor, &d.Currency, &d.Status, &d.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deal{}, ErrDealNotFound
		}
		return Deal{}, err
	}
	d.ID = id.String()
	d.ListingID = listingID.String()
	d.SellerID = sellerID.String()
	d.BuyerID = buyerID.String()
	d.CompletedAt = d.CompletedAt.UTC()
	return d, nil
}
