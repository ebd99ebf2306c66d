// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"

	deliverycontext "roster/internal/delivery/context"
	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	"roster/internal/domain/service"
	"roster/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// csvHeader names the exported columns. The password hash is deliberately
// absent: exports must never contain credential material.
var csvHeader = []string{"id", "first_name", "last_name", "email"}

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := validateRegisterInput(input); err != nil {
		srv.log(ctx).Warn("Registration input rejected", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Hash before opening the transaction: bcrypt is CPU-bound and must not
	// hold a database connection while it runs.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	newUser := &entity.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		PasswordHash:   hashedPassword,
		Phone:          input.Phone,
		ClinicName:     input.ClinicName,
		Specialization: input.Specialization,
	}

	// The uniqueness pre-check and the insert run in one transaction. The
	// pre-check exists only for the friendly conflict message; the unique
	// constraint remains authoritative when two registrations race, and the
	// repository translates that violation into the same conflict error.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		taken, err := userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email uniqueness")
		}
		if taken {
			return domainerrors.ErrEmailExists.WrapMessage("email already registered")
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Uint64("userID", uint64(newUser.ID)))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login verifies the submitted credentials.
//
// An unknown email and a wrong password produce the same error value so the
// response never reveals whether an account exists.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("email and password are required")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Uint64("userID", uint64(user.ID)))

	return &usecase.LoginOutput{User: user}, nil
}

// ExportCSV streams all stored accounts to w as CSV.
func (srv *accountService) ExportCSV(ctx context.Context, w io.Writer) error {
	users, err := srv.userRepo.ListAll(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list users for export")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}

	for _, user := range users {
		record := []string{
			strconv.FormatUint(uint64(user.ID), 10),
			user.FirstName,
			user.LastName,
			user.Email,
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write csv record")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "failed to flush csv output")
	}

	srv.log(ctx).Debug("Exported users", slog.Int("count", len(users)))

	return nil
}

// validateRegisterInput enforces the presence and confirmation rules.
// Optional profile fields are accepted as-is.
func validateRegisterInput(input *usecase.RegisterInput) error {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" ||
		input.Password == "" || input.ConfirmPassword == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("missing required registration fields")
	}

	if input.Password != input.ConfirmPassword {
		return domainerrors.ErrPasswordMismatch.WrapMessage("password confirmation mismatch")
	}

	return nil
}
