package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresRepository persists reviews in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a Postgres-backed review store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a review. The (deal, author) pair is unique.
func (r *PostgresRepository) Create(ctx context.Context, review Review) error {
	ids := make([]uuid.UUID, 4)
	for i, raw := range []string{review.ID, review.DealID, review.AuthorID, review.SubjectID} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		ids[i] = id
	}
	_, err := r.db.Exec(ctx, `INSERT INTO reviews (id, deal_id, author_id, subject_id, rating, comment, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ids[0], ids[1], ids[2], ids[3], review.Rating, review.Comment, review.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateReview
	}
	return err
}

// Summary returns the average rating and count received by the subject.
func (r *PostgresRepository) Summary(ctx context.Context, subjectID string) (Summary, error) {
	subject, err := uuid.Parse(subjectID)
	if err != nil {
		return Summary{}, nil
	}
	const query = `
        SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
        FROM reviews
        WHERE subject_id = $1`
	var s Summary
	if err := r.db.QueryRow(ctx, query, subject).Scan(&s.Average, &s.Count); err != nil {
		return Summary{}, err
	}
	return s, nil
}
