package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/listinghub/listinghub/internal/trust"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	UpdateVerification(ctx context.Context, id string, v Verification) error
	UpdatePremium(ctx context.Context, id string, until *time.Time) error
	UpdateTokenVersion(ctx context.Context, id string, version int) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, phone, display_name, user_type, role, password_hash,
        email_verified, phone_verified, identity_document_verified, address_proof_verified, verified,
        premium_until, token_version, created_at, last_login`

const uniqueViolation = "23505"

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	v := user.Verification
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		userID, user.Email, user.Phone, user.DisplayName, string(user.Type), string(user.Role), user.PasswordHash,
		v.Email, v.Phone, v.IdentityDocument, v.AddressProof, v.Verified,
		user.PremiumUntil, user.TokenVersion, user.CreatedAt.UTC(), user.LastLogin)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUserExists
	}
	return err
}

// FindByEmail fetches a user by email address.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

// UpdateVerification stores the verification flags.
func (r *PostgresRepository) UpdateVerification(ctx context.Context, id string, v Verification) error {
	return r.exec(ctx, `UPDATE users SET email_verified = $1, phone_verified = $2,
        identity_document_verified = $3, address_proof_verified = $4, verified = $5 WHERE id = $6`,
		id, v.Email, v.Phone, v.IdentityDocument, v.AddressProof, v.Verified)
}

// UpdatePremium sets or clears the purchased premium period.
func (r *PostgresRepository) UpdatePremium(ctx context.Context, id string, until *time.Time) error {
	return r.exec(ctx, `UPDATE users SET premium_until = $1 WHERE id = $2`, id, until)
}

// UpdateTokenVersion bumps the version embedded in issued tokens.
func (r *PostgresRepository) UpdateTokenVersion(ctx context.Context, id string, version int) error {
	return r.exec(ctx, `UPDATE users SET token_version = $1 WHERE id = $2`, id, version)
}

// TouchLogin records the last successful login.
func (r *PostgresRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, id, at.UTC())
}

// exec runs an update whose last placeholder is the user id.
func (r *PostgresRepository) exec(ctx context.Context, query, id string, args ...any) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}
	cmd, err := r.db.Exec(ctx, query, append(args, userID)...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id       uuid.UUID
		userType string
		role     string
		user     User
	)
	v := &user.Verification
	if err := row.Scan(&id, &user.Email, &user.Phone, &user.DisplayName, &userType, &role, &user.PasswordHash,
		&v.Email, &v.Phone, &v.IdentityDocument, &v.AddressProof, &v.Verified,
		&user.PremiumUntil, &user.TokenVersion, &user.CreatedAt, &user.LastLogin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	user.ID = id.String()
	user.Type = trust.ParseUserType(userType)
	user.Role = Role(role)
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}
