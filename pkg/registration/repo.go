package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"incubator/pkg/auth"
	"incubator/pkg/db"
	"incubator/pkg/startups"
)

var (
	ErrFounderEmailTaken = errors.New("founder email already registered")
	ErrDuplicateRecord   = errors.New("registration record already exists")
	ErrValueOutOfRange   = errors.New("numeric value out of range")
)

// Application is everything written by one registration.
type Application struct {
	Profile startups.StartupProfile
	Founder auth.Founder
	Payload Payload
}

type Store interface {
	FounderExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, app Application) (startups.StartupProfile, auth.Founder, error)
}

type postgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) FounderExists(ctx context.Context, email string) (bool, error) {
	_, err := auth.FindFounderByEmail(ctx, s.pool, email)
	if errors.Is(err, auth.ErrFounderNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create writes the profile, its optional sections and the founder in one
// transaction. Nothing is left behind if any insert fails.
func (s *postgresStore) Create(ctx context.Context, app Application) (startups.StartupProfile, auth.Founder, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return startups.StartupProfile{}, auth.Founder{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	profile, err := startups.InsertProfile(ctx, tx, app.Profile)
	if err != nil {
		return startups.StartupProfile{}, auth.Founder{}, classify(err)
	}

	p := app.Payload
	if p.hasDetails() {
		_, err = tx.Exec(ctx, `INSERT INTO registration_details (startup_id, reg_number, reg_date, reg_certificate, gst, ipr)
                               VALUES ($1, $2, $3, $4, $5, $6)`,
			profile.ID, p.RegNumber, parseDate(p.RegDate), nullable(p.RegCertificate), nullable(p.GST), p.IPR)
		if err != nil {
			return startups.StartupProfile{}, auth.Founder{}, classify(err)
		}
	}
	if p.hasAddress() {
		_, err = tx.Exec(ctx, `INSERT INTO registered_addresses (startup_id, addr_line1, addr_line2, state, city, district, pincode)
                               VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			profile.ID, p.AddrLine1, nullable(p.AddrLine2), p.State, p.City, nullable(p.District), p.Pincode)
		if err != nil {
			return startups.StartupProfile{}, auth.Founder{}, classify(err)
		}
	}
	if p.hasDocuments() {
		_, err = tx.Exec(ctx, `INSERT INTO documents (startup_id, pitch_deck, aadhar_number, pan_number, dipp_number)
                               VALUES ($1, $2, $3, $4, $5)`,
			profile.ID, nullable(p.PitchDeck), nullable(p.AadharNumber), nullable(p.PanNumber), nullable(p.DippNumber))
		if err != nil {
			return startups.StartupProfile{}, auth.Founder{}, classify(err)
		}
	}

	founder := app.Founder
	founder.UserID = profile.UserID
	founder, err = auth.InsertFounder(ctx, tx, founder)
	if err != nil {
		return startups.StartupProfile{}, auth.Founder{}, classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return startups.StartupProfile{}, auth.Founder{}, fmt.Errorf("commit registration: %w", err)
	}
	return profile, founder, nil
}

func classify(err error) error {
	if db.IsOutOfRange(err) {
		return fmt.Errorf("%w: %v", ErrValueOutOfRange, err)
	}
	if !db.IsUniqueViolation(err) {
		return err
	}
	if db.ConstraintName(err) == "founders_email_key" {
		return ErrFounderEmailTaken
	}
	return fmt.Errorf("%w: %s", ErrDuplicateRecord, db.ConstraintName(err))
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func parseDate(raw string) *time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
