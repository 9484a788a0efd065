package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pos-be/internal/domain"
	"pos-be/pkg/logger"
)

// MockAccountRepository mocks repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.LinkedAccount, error) {
	args := m.Called(ctx, telegramID)
	if acc := args.Get(0); acc != nil {
		return acc.(*domain.LinkedAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.LinkedAccount, error) {
	args := m.Called(ctx, userID)
	if acc := args.Get(0); acc != nil {
		return acc.(*domain.LinkedAccount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.LinkedAccount) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

// MockSupabaseAdmin mocks service.SupabaseAdmin
type MockSupabaseAdmin struct {
	mock.Mock
}

func (m *MockSupabaseAdmin) CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (string, error) {
	args := m.Called(ctx, email, password, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockSupabaseAdmin) CreateSession(ctx context.Context, userID string, expiresIn time.Duration) (*domain.Session, error) {
	args := m.Called(ctx, userID, expiresIn)
	if s := args.Get(0); s != nil {
		return s.(*domain.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func testIdentity() *domain.VerifiedIdentity {
	return &domain.VerifiedIdentity{
		TelegramID: 42,
		FirstName:  "Ann",
		LastName:   "Lee",
		Username:   "annlee",
	}
}

func testSession(userID string) *domain.Session {
	return &domain.Session{
		AccessToken: "access-token",
		TokenType:   "bearer",
		ExpiresIn:   int64(SessionTTL.Seconds()),
		UserID:      userID,
	}
}

func TestExchangeFirstLoginProvisionsOnce(t *testing.T) {
	accounts := new(MockAccountRepository)
	admin := new(MockSupabaseAdmin)
	svc := NewService(accounts, admin, logger.NewNop())

	accounts.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, nil).Once()
	admin.On("CreateUser", mock.Anything, "telegram-42@telegram.local", mock.AnythingOfType("string"), mock.Anything).
		Return("user-1", nil).Once()
	accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.LinkedAccount) bool {
		return a.TelegramID == 42 && a.UserID == "user-1" && a.FirstName == "Ann"
	})).Return(true, nil).Once()
	admin.On("CreateSession", mock.Anything, "user-1", SessionTTL).Return(testSession("user-1"), nil).Once()

	session, err := svc.Exchange(context.Background(), testIdentity())

	require.NoError(t, err)
	assert.Equal(t, "access-token", session.AccessToken)
	assert.Equal(t, "user-1", session.UserID)
	accounts.AssertExpectations(t)
	admin.AssertExpectations(t)
}

func TestExchangeRepeatLoginReusesAccount(t *testing.T) {
	accounts := new(MockAccountRepository)
	admin := new(MockSupabaseAdmin)
	svc := NewService(accounts, admin, logger.NewNop())

	existing := &domain.LinkedAccount{
		ID:         "row-1",
		UserID:     "user-1",
		TelegramID: 42,
		FirstName:  "Ann",
	}

	accounts.On("GetByTelegramID", mock.Anything, int64(42)).Return(existing, nil).Once()
	admin.On("CreateSession", mock.Anything, "user-1", SessionTTL).Return(testSession("user-1"), nil).Once()

	_, err := svc.Exchange(context.Background(), testIdentity())

	require.NoError(t, err)
	admin.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	accounts.AssertExpectations(t)
	admin.AssertExpectations(t)
}

func TestExchangeInsertConflictReusesWinner(t *testing.T) {
	accounts := new(MockAccountRepository)
	admin := new(MockSupabaseAdmin)
	svc := NewService(accounts, admin, logger.NewNop())

	winner := &domain.LinkedAccount{
		ID:         "row-1",
		UserID:     "winner-user",
		TelegramID: 42,
		FirstName:  "Ann",
	}

	// First lookup misses, a concurrent login wins the insert race, the
	// second lookup returns the winner's row
	accounts.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, nil).Once()
	admin.On("CreateUser", mock.Anything, "telegram-42@telegram.local", mock.AnythingOfType("string"), mock.Anything).
		Return("loser-user", nil).Once()
	accounts.On("Create", mock.Anything, mock.Anything).Return(false, nil).Once()
	accounts.On("GetByTelegramID", mock.Anything, int64(42)).Return(winner, nil).Once()
	admin.On("CreateSession", mock.Anything, "winner-user", SessionTTL).Return(testSession("winner-user"), nil).Once()

	session, err := svc.Exchange(context.Background(), testIdentity())

	require.NoError(t, err)
	assert.Equal(t, "winner-user", session.UserID)
	accounts.AssertExpectations(t)
	admin.AssertExpectations(t)
}

func TestExchangeFailurePropagation(t *testing.T) {
	backendErr := errors.New("backend unavailable")

	tests := []struct {
		name  string
		setup func(accounts *MockAccountRepository, admin *MockSupabaseAdmin)
	}{
		{
			name: "lookup failure",
			setup: func(accounts *MockAccountRepository, admin *MockSupabaseAdmin) {
				accounts.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, backendErr).Once()
			},
		},
		{
			name: "user provisioning failure",
			setup: func(accounts *MockAccountRepository, admin *MockSupabaseAdmin) {
				accounts.On("GetByTelegramID", mock.Anything, int64(42)).Return(nil, nil).Once()
				admin.On("CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", backendErr).Once()
			},
		},
		{
			name: "session issuance failure",
			setup: func(accounts *MockAccountRepository, admin *MockSupabaseAdmin) {
				accounts.On("GetByTelegramID", mock.Anything, int64(42)).
					Return(&domain.LinkedAccount{UserID: "user-1", TelegramID: 42}, nil).Once()
				admin.On("CreateSession", mock.Anything, "user-1", SessionTTL).Return(nil, backendErr).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountRepository)
			admin := new(MockSupabaseAdmin)
			tt.setup(accounts, admin)

			svc := NewService(accounts, admin, logger.NewNop())
			_, err := svc.Exchange(context.Background(), testIdentity())

			require.Error(t, err)
			assert.ErrorIs(t, err, backendErr)
			accounts.AssertExpectations(t)
			admin.AssertExpectations(t)
		})
	}
}

func TestSyntheticEmail(t *testing.T) {
	if got := syntheticEmail(987654321); got != "telegram-987654321@telegram.local" {
		t.Errorf("syntheticEmail() = %q", got)
	}
}
