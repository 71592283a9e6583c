package startups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"incubator/pkg/db"
)

var (
	ErrStartupNotFound = errors.New("startup not found")
	ErrFounderNotFound = errors.New("founder not found")
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (StartupProfile, error)
	List(ctx context.Context, approved *bool) ([]StartupProfile, error)
	Update(ctx context.Context, userID string, upd ProfileUpdate) (StartupProfile, error)
	Approve(ctx context.Context, userID string) (StartupProfile, error)
	Delete(ctx context.Context, userID string) (StartupProfile, error)
	FounderStartupID(ctx context.Context, email string) (string, error)
	FounderContacts(ctx context.Context, userID string) ([]FounderContact, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const profileColumns = `id, user_id, name, entity_name, sector, categories, year, brand_name,
       entity_registration_status, stage, details_text, size, incubation_status, is_approved,
       startup_india_register, created_at, updated_at`

func scanProfile(row pgx.Row) (StartupProfile, error) {
	var p StartupProfile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.EntityName, &p.Sector, &p.Categories, &p.Year, &p.BrandName,
		&p.EntityRegistrationStatus, &p.Stage, &p.DetailsText, &p.Size, &p.IncubationStatus, &p.IsApproved,
		&p.StartupIndiaRegister, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StartupProfile{}, ErrStartupNotFound
		}
		return StartupProfile{}, err
	}
	return p, nil
}

// InsertProfile writes a new unapproved profile through q.
func InsertProfile(ctx context.Context, q db.DBTX, p StartupProfile) (StartupProfile, error) {
	query := `INSERT INTO startup_profiles (user_id, name, entity_name, sector, categories, year, brand_name,
                  entity_registration_status, stage, details_text, size, incubation_status, startup_india_register)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
              RETURNING ` + profileColumns
	return scanProfile(q.QueryRow(ctx, query, p.UserID, p.Name, p.EntityName, p.Sector, p.Categories, p.Year,
		p.BrandName, p.EntityRegistrationStatus, p.Stage, p.DetailsText, p.Size, p.IncubationStatus,
		p.StartupIndiaRegister))
}

func (r *postgresRepository) GetByUserID(ctx context.Context, userID string) (StartupProfile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM startup_profiles WHERE user_id = $1`, userID))
}

func (r *postgresRepository) List(ctx context.Context, approved *bool) ([]StartupProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM startup_profiles`
	var args []any
	if approved != nil {
		query += ` WHERE is_approved = $1`
		args = append(args, *approved)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]StartupProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *postgresRepository) Update(ctx context.Context, userID string, upd ProfileUpdate) (StartupProfile, error) {
	cols, vals := upd.assignments()
	if len(cols) == 0 {
		return r.GetByUserID(ctx, userID)
	}

	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}
	sets = append(sets, "updated_at = NOW()")
	vals = append(vals, userID)

	query := fmt.Sprintf(`UPDATE startup_profiles SET %s WHERE user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(vals), profileColumns)
	return scanProfile(r.pool.QueryRow(ctx, query, vals...))
}

func (r *postgresRepository) Approve(ctx context.Context, userID string) (StartupProfile, error) {
	query := `UPDATE startup_profiles SET is_approved = true, updated_at = NOW()
              WHERE user_id = $1
              RETURNING ` + profileColumns
	return scanProfile(r.pool.QueryRow(ctx, query, userID))
}

// Delete removes the profile; registration details, addresses and documents
// go with it through ON DELETE CASCADE. Founders are untouched.
func (r *postgresRepository) Delete(ctx context.Context, userID string) (StartupProfile, error) {
	query := `DELETE FROM startup_profiles WHERE user_id = $1 RETURNING ` + profileColumns
	return scanProfile(r.pool.QueryRow(ctx, query, userID))
}

func (r *postgresRepository) FounderStartupID(ctx context.Context, email string) (string, error) {
	var userID string
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM founders WHERE email = $1`, email).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrFounderNotFound
		}
		return "", err
	}
	return userID, nil
}

func (r *postgresRepository) FounderContacts(ctx context.Context, userID string) ([]FounderContact, error) {
	rows, err := r.pool.Query(ctx, `SELECT founder_id, name, email FROM founders WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FounderContact
	for rows.Next() {
		var c FounderContact
		if err := rows.Scan(&c.FounderID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
