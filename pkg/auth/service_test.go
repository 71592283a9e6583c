package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"incubator/pkg/apperr"
	"incubator/pkg/token"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateFounder(ctx context.Context, f Founder) (Founder, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).(Founder)
	return out, args.Error(1)
}

func (m *mockRepository) GetFounderByEmail(ctx context.Context, email string) (Founder, error) {
	args := m.Called(ctx, email)
	out, _ := args.Get(0).(Founder)
	return out, args.Error(1)
}

func (m *mockRepository) GetFounderByID(ctx context.Context, founderID string) (Founder, error) {
	args := m.Called(ctx, founderID)
	out, _ := args.Get(0).(Founder)
	return out, args.Error(1)
}

func (m *mockRepository) CreateAdmin(ctx context.Context, adminID, email, passwordHash string) (Admin, error) {
	args := m.Called(ctx, adminID, email, passwordHash)
	out, _ := args.Get(0).(Admin)
	return out, args.Error(1)
}

func (m *mockRepository) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	args := m.Called(ctx, email)
	out, _ := args.Get(0).(Admin)
	return out, args.Error(1)
}

func (m *mockRepository) StartupExists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) GetAdminByID(ctx context.Context, adminID string) (Admin, error) {
	args := m.Called(ctx, adminID)
	out, _ := args.Get(0).(Admin)
	return out, args.Error(1)
}

type recordingDenylist struct {
	jti string
	ttl time.Duration
}

func (d *recordingDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.jti, d.ttl = jti, ttl
	return nil
}

func (d *recordingDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func testTokens() *token.Service {
	return token.NewService("access-test", "refresh-test", 15*time.Minute, time.Hour)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegisterFounder_Success(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()
	startupID := uuid.NewString()

	repo.On("GetFounderByEmail", ctx, "a@b.co").Return(Founder{}, ErrFounderNotFound).Once()
	repo.On("StartupExists", ctx, startupID).Return(true, nil).Once()
	repo.On("CreateFounder", ctx, mock.MatchedBy(func(f Founder) bool {
		return f.Email == "a@b.co" && f.UserID == startupID && f.Name == "Asha" &&
			bcrypt.CompareHashAndPassword([]byte(f.PasswordHash), []byte("secret1")) == nil
	})).Return(Founder{FounderID: "f-1", Email: "a@b.co", UserID: startupID}, nil).Once()

	f, err := svc.RegisterFounder(ctx, " A@B.co ", "secret1", startupID, "Asha")
	require.NoError(t, err)
	require.Equal(t, "f-1", f.FounderID)
	repo.AssertExpectations(t)
}

func TestRegisterFounder_DefaultName(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()

	repo.On("GetFounderByEmail", ctx, "a@b.co").Return(Founder{}, ErrFounderNotFound).Once()
	repo.On("StartupExists", ctx, mock.Anything).Return(true, nil).Once()
	repo.On("CreateFounder", ctx, mock.MatchedBy(func(f Founder) bool {
		return f.Name == "Test Founder"
	})).Return(Founder{FounderID: "f-1"}, nil).Once()

	_, err := svc.RegisterFounder(ctx, "a@b.co", "secret1", uuid.NewString(), "")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRegisterFounder_DuplicateEmail(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()

	repo.On("GetFounderByEmail", ctx, "a@b.co").Return(Founder{FounderID: "f-1"}, nil).Once()

	_, err := svc.RegisterFounder(ctx, "a@b.co", "secret1", uuid.NewString(), "Asha")
	require.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	require.Equal(t, "Founder with this email already exists.", err.Error())
	repo.AssertNotCalled(t, "CreateFounder", mock.Anything, mock.Anything)
}

func TestRegisterFounder_UniqueViolationIsDuplicate(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()

	repo.On("GetFounderByEmail", ctx, "a@b.co").Return(Founder{}, ErrFounderNotFound).Once()
	repo.On("StartupExists", ctx, mock.Anything).Return(true, nil).Once()
	repo.On("CreateFounder", ctx, mock.Anything).Return(Founder{}, &pgconn.PgError{Code: "23505"}).Once()

	_, err := svc.RegisterFounder(ctx, "a@b.co", "secret1", uuid.NewString(), "Asha")
	require.ErrorIs(t, err, apperr.ErrDuplicateEmail)
}

func TestRegisterFounder_UnknownStartup(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()
	startupID := uuid.NewString()

	repo.On("GetFounderByEmail", ctx, "a@b.co").Return(Founder{}, ErrFounderNotFound).Once()
	repo.On("StartupExists", ctx, startupID).Return(false, nil).Once()

	_, err := svc.RegisterFounder(ctx, "a@b.co", "secret1", startupID, "Asha")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, "Startup not found", err.Error())
	repo.AssertNotCalled(t, "CreateFounder", mock.Anything, mock.Anything)
}

func TestRegisterFounder_InvalidStartupID(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)

	_, err := svc.RegisterFounder(context.Background(), "a@b.co", "secret1", "not-a-uuid", "Asha")
	require.ErrorIs(t, err, apperr.ErrValidation)
	repo.AssertNotCalled(t, "GetFounderByEmail", mock.Anything, mock.Anything)
}

func TestRegisterAdmin_Duplicate(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()

	repo.On("GetAdminByEmail", ctx, "root@b.co").Return(Admin{AdminID: "a-1"}, nil).Once()

	_, err := svc.RegisterAdmin(ctx, "root@b.co", "secret1")
	require.ErrorIs(t, err, apperr.ErrDuplicateEmail)
}

func TestRegisterAdmin_Success(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()

	repo.On("GetAdminByEmail", ctx, "root@b.co").Return(Admin{}, ErrAdminNotFound).Once()
	repo.On("CreateAdmin", ctx, mock.AnythingOfType("string"), "root@b.co", mock.AnythingOfType("string")).
		Return(Admin{AdminID: "a-1", Email: "root@b.co"}, nil).Once()

	a, err := svc.RegisterAdmin(ctx, "root@b.co", "secret1")
	require.NoError(t, err)
	require.Equal(t, "a-1", a.AdminID)
	repo.AssertExpectations(t)
}

func TestLoginFounder_Success(t *testing.T) {
	repo := new(mockRepository)
	tokens := testTokens()
	svc := NewService(repo, tokens, nil)
	ctx := context.Background()

	repo.On("GetFounderByEmail", ctx, "a@b.co").
		Return(Founder{FounderID: "f-1", Email: "a@b.co", PasswordHash: hashOf(t, "secret1")}, nil).Once()

	res, err := svc.LoginFounder(ctx, "a@b.co", "secret1")
	require.NoError(t, err)
	require.Equal(t, "f-1", res.FounderID)
	require.Empty(t, res.AdminID)

	claims, err := tokens.VerifyAccessToken(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, token.RoleFounder, claims.Role)

	refresh, err := tokens.VerifyRefreshToken(res.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, token.RoleFounder, refresh.Role)
}

func TestLogin_UnknownEmailAndWrongPasswordLookTheSame(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()

	repo.On("GetFounderByEmail", ctx, "nobody@b.co").Return(Founder{}, ErrFounderNotFound).Once()
	repo.On("GetFounderByEmail", ctx, "a@b.co").
		Return(Founder{FounderID: "f-1", PasswordHash: hashOf(t, "secret1")}, nil).Once()

	_, errUnknown := svc.LoginFounder(ctx, "nobody@b.co", "secret1")
	_, errWrong := svc.LoginFounder(ctx, "a@b.co", "wrong")

	require.ErrorIs(t, errUnknown, apperr.ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, apperr.ErrInvalidCredentials)
	require.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLoginAdmin_Success(t *testing.T) {
	repo := new(mockRepository)
	tokens := testTokens()
	svc := NewService(repo, tokens, nil)
	ctx := context.Background()

	repo.On("GetAdminByEmail", ctx, "root@b.co").
		Return(Admin{AdminID: "a-1", Email: "root@b.co", PasswordHash: hashOf(t, "secret1")}, nil).Once()

	res, err := svc.LoginAdmin(ctx, "root@b.co", "secret1")
	require.NoError(t, err)
	require.Equal(t, "a-1", res.AdminID)
	require.Empty(t, res.FounderID)

	claims, err := tokens.VerifyAccessToken(res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "a-1", claims.AdminID)
}

func TestLoginAdmin_RepoErrorIsNotCredentialError(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, testTokens(), nil)
	ctx := context.Background()

	repo.On("GetAdminByEmail", ctx, "root@b.co").Return(Admin{}, errors.New("db down")).Once()

	_, err := svc.LoginAdmin(ctx, "root@b.co", "secret1")
	require.Error(t, err)
	require.NotErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRefreshAccessToken(t *testing.T) {
	tokens := testTokens()
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		svc := NewService(new(mockRepository), tokens, nil)
		_, err := svc.RefreshAccessToken(ctx, "")
		require.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("invalid token", func(t *testing.T) {
		svc := NewService(new(mockRepository), tokens, nil)
		_, err := svc.RefreshAccessToken(ctx, "garbage")
		require.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("founder re-minted with founder role", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, tokens, nil)
		refresh, err := tokens.GenerateRefreshToken("f-1", token.RoleFounder)
		require.NoError(t, err)
		repo.On("GetFounderByID", ctx, "f-1").Return(Founder{FounderID: "f-1", Email: "a@b.co"}, nil).Once()

		access, err := svc.RefreshAccessToken(ctx, refresh)
		require.NoError(t, err)
		claims, err := tokens.VerifyAccessToken(access)
		require.NoError(t, err)
		require.Equal(t, token.RoleFounder, claims.Role)
		require.Equal(t, "a@b.co", claims.Email)
	})

	t.Run("admin not found", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, tokens, nil)
		refresh, err := tokens.GenerateRefreshToken("a-9", token.RoleAdmin)
		require.NoError(t, err)
		repo.On("GetAdminByID", ctx, "a-9").Return(Admin{}, ErrAdminNotFound).Once()

		_, err = svc.RefreshAccessToken(ctx, refresh)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestLogout_RevokesRemainingLifetime(t *testing.T) {
	tokens := testTokens()
	deny := &recordingDenylist{}
	svc := NewService(new(mockRepository), tokens, deny)

	access, err := tokens.GenerateAccessToken("f-1", "a@b.co", true)
	require.NoError(t, err)
	claims, err := tokens.VerifyAccessToken(access)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	require.Equal(t, claims.ID, deny.jti)
	require.Greater(t, deny.ttl, 14*time.Minute)
}
