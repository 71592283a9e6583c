package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"incubator/pkg/db"
)

var (
	ErrFounderNotFound = errors.New("founder not found")
	ErrAdminNotFound   = errors.New("admin not found")
)

type Repository interface {
	CreateFounder(ctx context.Context, f Founder) (Founder, error)
	GetFounderByEmail(ctx context.Context, email string) (Founder, error)
	GetFounderByID(ctx context.Context, founderID string) (Founder, error)
	CreateAdmin(ctx context.Context, adminID, email, passwordHash string) (Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (Admin, error)
	GetAdminByID(ctx context.Context, adminID string) (Admin, error)
	StartupExists(ctx context.Context, userID string) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const founderColumns = `id, founder_id, user_id, name, designation, mobile, address, equity, email, password_hash, created_at, updated_at`

func scanFounder(row pgx.Row) (Founder, error) {
	var f Founder
	err := row.Scan(&f.ID, &f.FounderID, &f.UserID, &f.Name, &f.Designation, &f.Mobile, &f.Address,
		&f.Equity, &f.Email, &f.PasswordHash, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Founder{}, ErrFounderNotFound
		}
		return Founder{}, err
	}
	return f, nil
}

// InsertFounder writes a founder row through q, which may be a transaction.
func InsertFounder(ctx context.Context, q db.DBTX, f Founder) (Founder, error) {
	query := `INSERT INTO founders (founder_id, user_id, name, designation, mobile, address, equity, email, password_hash)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING ` + founderColumns
	return scanFounder(q.QueryRow(ctx, query, f.FounderID, f.UserID, f.Name, f.Designation, f.Mobile,
		f.Address, f.Equity, f.Email, f.PasswordHash))
}

// FindFounderByEmail looks a founder up through q.
func FindFounderByEmail(ctx context.Context, q db.DBTX, email string) (Founder, error) {
	return scanFounder(q.QueryRow(ctx, `SELECT `+founderColumns+` FROM founders WHERE email = $1`, email))
}

func (r *postgresRepository) CreateFounder(ctx context.Context, f Founder) (Founder, error) {
	return InsertFounder(ctx, r.pool, f)
}

func (r *postgresRepository) GetFounderByEmail(ctx context.Context, email string) (Founder, error) {
	return FindFounderByEmail(ctx, r.pool, email)
}

func (r *postgresRepository) GetFounderByID(ctx context.Context, founderID string) (Founder, error) {
	return scanFounder(r.pool.QueryRow(ctx, `SELECT `+founderColumns+` FROM founders WHERE founder_id = $1`, founderID))
}

const adminColumns = `id, admin_id, email, password_hash, created_at, updated_at`

func scanAdmin(row pgx.Row) (Admin, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.AdminID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, ErrAdminNotFound
		}
		return Admin{}, err
	}
	return a, nil
}

func (r *postgresRepository) CreateAdmin(ctx context.Context, adminID, email, passwordHash string) (Admin, error) {
	query := `INSERT INTO admins (admin_id, email, password_hash)
              VALUES ($1, $2, $3)
              RETURNING ` + adminColumns
	return scanAdmin(r.pool.QueryRow(ctx, query, adminID, email, passwordHash))
}

func (r *postgresRepository) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

func (r *postgresRepository) GetAdminByID(ctx context.Context, adminID string) (Admin, error) {
	return scanAdmin(r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE admin_id = $1`, adminID))
}

func (r *postgresRepository) StartupExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM startup_profiles WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}
