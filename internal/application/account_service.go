package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentwheels/service-rental/internal/auth"
	"github.com/rentwheels/service-rental/internal/domain"
	accountDomain "github.com/rentwheels/service-rental/internal/domain/account"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
)

// SignUpRequest holds the data needed to register an account.
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// SignInRequest holds login credentials.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateAccountRequest is a full replacement of an account's profile.
type UpdateAccountRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

// AccountDTO is the API response representation of an account. The
// credential hash is never part of it.
type AccountDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
	Role  string    `json:"role"`
}

// SignInResult carries the issued session token and the account profile.
type SignInResult struct {
	Token string     `json:"token"`
	User  AccountDTO `json:"user"`
}

// AccountService implements account registry use cases: registration,
// authentication and guarded profile management.
type AccountService struct {
	accounts accountDomain.Repository
	bookings bookingDomain.Repository
	tx       domain.Transactor
	jwt      *auth.JWTManager
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	accounts accountDomain.Repository,
	bookings bookingDomain.Repository,
	tx domain.Transactor,
	jwt *auth.JWTManager,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		bookings: bookings,
		tx:       tx,
		jwt:      jwt,
		logger:   logger,
	}
}

// SignUp registers a new account. The password is bcrypt-hashed before it
// reaches the domain, and the email is normalized to lower case.
func (s *AccountService) SignUp(ctx context.Context, req SignUpRequest) (*AccountDTO, error) {
	role, err := accountDomain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, domain.NewValidationError("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a, err := accountDomain.NewAccount(req.Name, req.Email, string(hash), req.Phone, role)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		zap.String("account_id", a.ID().String()),
		zap.String("role", string(a.Role())),
	)
	result := toAccountDTO(a)
	return &result, nil
}

// SignIn authenticates by email and password and issues a session token
// carrying the account's id and role.
func (s *AccountService) SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error) {
	a, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash()), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid password")
	}

	token, err := s.jwt.Issue(a.ID(), a.Role())
	if err != nil {
		return nil, err
	}

	s.logger.Info("account signed in", zap.String("account_id", a.ID().String()))
	return &SignInResult{Token: token, User: toAccountDTO(a)}, nil
}

// ListAccounts returns all accounts ordered by id ascending, without
// credential hashes.
func (s *AccountService) ListAccounts(ctx context.Context) ([]AccountDTO, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(a)
	}
	return dtos, nil
}

// UpdateAccount applies a full replacement of name, email, phone and role.
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*AccountDTO, error) {
	role, err := accountDomain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.Replace(req.Name, req.Email, req.Phone, role); err != nil {
		return nil, err
	}
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("account updated", zap.String("account_id", id.String()))
	result := toAccountDTO(a)
	return &result, nil
}

// DeleteAccount removes an account unless it owns a non-terminal booking.
// The check and the delete run in one transaction.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		blocked, err := s.bookings.ExistsBlockingForCustomer(txCtx, id)
		if err != nil {
			return err
		}
		if blocked {
			return domain.NewConflictError("user cannot be deleted because they have active bookings")
		}
		return s.accounts.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.String("account_id", id.String()))
	return nil
}

func toAccountDTO(a *accountDomain.Account) AccountDTO {
	return AccountDTO{
		ID:    a.ID(),
		Name:  a.Name(),
		Email: a.Email(),
		Phone: a.Phone(),
		Role:  string(a.Role()),
	}
}
