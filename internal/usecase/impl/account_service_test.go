package impl

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	mockRepo "roster/internal/mocks/repository"
	mockSvc "roster/internal/mocks/service"
	"roster/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service   usecase.AccountUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	service := NewAccountService(AccountServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Logger:    newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:   service,
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
	}
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "pw123",
		ConfirmPassword: "pw123",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				ExistsByEmail(ctx, input.Email).
				Return(false, nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					user.ID = 1
				}).
				Return(nil)

			_ = fn(mockFactory)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, uint(1), output.User.ID)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()
	input.LastName = ""

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAccountService_Register_PasswordMismatch(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()
	input.ConfirmPassword = "pw124"

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				ExistsByEmail(ctx, input.Email).
				Return(true, nil)

			_ = fn(mockFactory)
		}).
		Return(domainerrors.ErrEmailExists.WrapMessage("email already registered"))

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailExists))
}

// A registration that loses the insert race surfaces the same conflict error
// as one caught by the pre-check.
func TestAccountService_Register_ConstraintRace(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				ExistsByEmail(ctx, input.Email).
				Return(false, nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Return(domainerrors.ErrEmailExists.WrapMessage("email already exists"))

			_ = fn(mockFactory)
		}).
		Return(domainerrors.ErrEmailExists.WrapMessage("email already exists"))

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailExists))
}

func TestAccountService_Register_HashFailure(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := validRegisterInput()

	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.New("entropy source unavailable"))

	output, err := fx.service.Register(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	storedUser := &entity.User{
		ID:           7,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().FindByEmail(ctx, storedUser.Email).Return(storedUser, nil)
	fx.hasher.EXPECT().Check("pw123", storedUser.PasswordHash).Return(true)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    storedUser.Email,
		Password: "pw123",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, storedUser.ID, output.User.ID)
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

// Unknown email and wrong password must be indistinguishable from the
// returned error so responses never reveal whether an account exists.
func TestAccountService_Login_UndifferentiatedFailure(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	storedUser := &entity.User{
		ID:           7,
		Email:        "ada@example.com",
		PasswordHash: "hashed_password",
	}

	fx.userRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	fx.userRepo.EXPECT().FindByEmail(ctx, storedUser.Email).Return(storedUser, nil)
	fx.hasher.EXPECT().Check("wrong", storedUser.PasswordHash).Return(false)

	_, unknownErr := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "pw123",
	})
	_, wrongPwErr := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    storedUser.Email,
		Password: "wrong",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	assert.True(t, errors.Is(unknownErr, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(wrongPwErr, domainerrors.ErrInvalidCredentials))

	var unknownApp, wrongPwApp domainerrors.AppError
	require.True(t, errors.As(unknownErr, &unknownApp))
	require.True(t, errors.As(wrongPwErr, &wrongPwApp))
	assert.Equal(t, unknownApp.Message(), wrongPwApp.Message())
	assert.Equal(t, unknownApp.HTTPCode(), wrongPwApp.HTTPCode())
}

func TestAccountService_ExportCSV(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	stored := []*entity.User{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "secret_hash_a"},
		{ID: 2, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", PasswordHash: "secret_hash_b"},
	}

	fx.userRepo.EXPECT().ListAll(ctx).Return(stored, nil)

	var buf bytes.Buffer
	err := fx.service.ExportCSV(ctx, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3) // header + one row per stored record
	assert.Equal(t, []string{"id", "first_name", "last_name", "email"}, records[0])
	assert.Equal(t, []string{"1", "Ada", "Lovelace", "ada@example.com"}, records[1])
	assert.Equal(t, []string{"2", "Grace", "Hopper", "grace@example.com"}, records[2])

	// Credential material never shows up in the export.
	assert.NotContains(t, buf.String(), "secret_hash_a")
	assert.NotContains(t, buf.String(), "secret_hash_b")
}

func TestAccountService_ExportCSV_Empty(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().ListAll(ctx).Return([]*entity.User{}, nil)

	var buf bytes.Buffer
	err := fx.service.ExportCSV(ctx, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"id", "first_name", "last_name", "email"}, records[0])
}
