package events

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"incubator/pkg/db"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	CreateEvent(ctx context.Context, e Event) (Event, error)
	UpdateEvent(ctx context.Context, id int64, upd EventUpdate) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	CreateRegistration(ctx context.Context, r Registration) (Registration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID int64) ([]Registration, error)
	ListRegistrationsByEmail(ctx context.Context, email string) ([]Registration, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const eventColumns = `id, name, COALESCE(poster_link, ''), date, COALESCE(description, ''), created_at, updated_at`

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	if err := row.Scan(&e.ID, &e.Name, &e.PosterLink, &e.Date, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, err
	}
	return e, nil
}

func (r *postgresRepository) CreateEvent(ctx context.Context, e Event) (Event, error) {
	query := `INSERT INTO events (name, poster_link, date, description)
              VALUES ($1, $2, $3, $4)
              RETURNING ` + eventColumns
	return scanEvent(r.pool.QueryRow(ctx, query, e.Name, e.PosterLink, e.Date, e.Description))
}

func (r *postgresRepository) UpdateEvent(ctx context.Context, id int64, upd EventUpdate) (Event, error) {
	query := `UPDATE events
              SET name = COALESCE($1, name),
                  poster_link = COALESCE($2, poster_link),
                  date = COALESCE($3, date),
                  description = COALESCE($4, description),
                  updated_at = NOW()
              WHERE id = $5
              RETURNING ` + eventColumns
	return scanEvent(r.pool.QueryRow(ctx, query, upd.Name, upd.PosterLink, upd.Date, upd.Description, id))
}

func (r *postgresRepository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const registrationColumns = `id, event_id, name, number, email, created_at`

func (r *postgresRepository) CreateRegistration(ctx context.Context, reg Registration) (Registration, error) {
	query := `INSERT INTO event_registrations (event_id, name, number, email)
              VALUES ($1, $2, $3, $4)
              RETURNING ` + registrationColumns
	var out Registration
	err := r.pool.QueryRow(ctx, query, reg.EventID, reg.Name, reg.Number, reg.Email).
		Scan(&out.ID, &out.EventID, &out.Name, &out.Number, &out.Email, &out.CreatedAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Registration{}, ErrEventNotFound
		}
		return Registration{}, err
	}
	return out, nil
}

func (r *postgresRepository) ListRegistrationsByEvent(ctx context.Context, eventID int64) ([]Registration, error) {
	return r.listRegistrations(ctx, `SELECT `+registrationColumns+` FROM event_registrations WHERE event_id = $1 ORDER BY id`, eventID)
}

func (r *postgresRepository) ListRegistrationsByEmail(ctx context.Context, email string) ([]Registration, error) {
	return r.listRegistrations(ctx, `SELECT `+registrationColumns+` FROM event_registrations WHERE email = $1 ORDER BY id`, email)
}

func (r *postgresRepository) listRegistrations(ctx context.Context, query string, arg any) ([]Registration, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Registration, 0)
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.Name, &reg.Number, &reg.Email, &reg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}
