package registration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"incubator/pkg/auth"
	"incubator/pkg/startups"
	"incubator/pkg/testhelpers"
)

func application(email, regNumber string) Application {
	return Application{
		Profile: startups.StartupProfile{
			UserID: uuid.NewString(), Name: "Acme", EntityName: "Acme Pvt", Sector: "s", Categories: "c", Year: 2022, Size: 3,
		},
		Founder: auth.Founder{FounderID: uuid.NewString(), Name: "Asha", Email: email, PasswordHash: "hash"},
		Payload: Payload{RegNumber: regNumber, RegDate: "2024-01-02", AddrLine1: "1 Main St", State: "KA", City: "Blr", Pincode: 560001, PitchDeck: "deck.pdf"},
	}
}

func TestPostgresStore_CreateWritesAggregate(t *testing.T) {
	pool := testhelpers.NewTestPool(t, "../db/schema.sql")
	store := NewPostgresStore(pool)
	ctx := context.Background()

	profile, founder, err := store.Create(ctx, application("asha@example.com", "REG-1"))
	require.NoError(t, err)
	require.False(t, profile.IsApproved)
	require.Equal(t, profile.UserID, founder.UserID)

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM registration_details WHERE startup_id = $1`, profile.ID).Scan(&n))
	require.Equal(t, 1, n)
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM registered_addresses WHERE startup_id = $1`, profile.ID).Scan(&n))
	require.Equal(t, 1, n)

	exists, err := store.FounderExists(ctx, "asha@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestPostgresStore_DuplicateEmailRollsBack(t *testing.T) {
	pool := testhelpers.NewTestPool(t, "../db/schema.sql")
	store := NewPostgresStore(pool)
	ctx := context.Background()

	_, _, err := store.Create(ctx, application("asha@example.com", "REG-1"))
	require.NoError(t, err)

	_, _, err = store.Create(ctx, application("asha@example.com", "REG-2"))
	require.ErrorIs(t, err, ErrFounderEmailTaken)

	var profiles int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM startup_profiles`).Scan(&profiles))
	require.Equal(t, 1, profiles)
}

func TestPostgresStore_DuplicateRegNumber(t *testing.T) {
	pool := testhelpers.NewTestPool(t, "../db/schema.sql")
	store := NewPostgresStore(pool)
	ctx := context.Background()

	_, _, err := store.Create(ctx, application("one@example.com", "REG-1"))
	require.NoError(t, err)

	_, _, err = store.Create(ctx, application("two@example.com", "REG-1"))
	require.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestPostgresStore_LargeNumericValuesStored(t *testing.T) {
	pool := testhelpers.NewTestPool(t, "../db/schema.sql")
	store := NewPostgresStore(pool)
	ctx := context.Background()

	app := application("big@example.com", "REG-BIG")
	app.Founder.Equity = 1000
	app.Profile.Year = 3_000_000_000
	app.Profile.Size = 5_000_000_000
	app.Payload.Pincode = 9_000_000_000

	profile, founder, err := store.Create(ctx, app)
	require.NoError(t, err)
	require.Equal(t, float64(1000), founder.Equity)
	require.Equal(t, 3_000_000_000, profile.Year)
	require.Equal(t, 5_000_000_000, profile.Size)

	var pincode int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT pincode FROM registered_addresses WHERE startup_id = $1`, profile.ID).Scan(&pincode))
	require.Equal(t, int64(9_000_000_000), pincode)
}
