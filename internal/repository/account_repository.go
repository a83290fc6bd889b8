package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentwheels/service-rental/internal/domain"
	accountDomain "github.com/rentwheels/service-rental/internal/domain/account"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Phone        string    `gorm:"type:varchar(20);not null"`
	Role         string    `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormAccountRepository is the GORM-based implementation of account.Repository.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository.
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID retrieves an account by its unique identifier.
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accountDomain.Account, error) {
	var model UserModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toDomainAccount(&model), nil
}

// FindByEmail retrieves an account by its lower-cased email.
func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*accountDomain.Account, error) {
	var model UserModel
	err := conn(ctx, r.db).
		Where("email = ?", accountDomain.NormalizeEmail(email)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return toDomainAccount(&model), nil
}

// ListAll retrieves all accounts ordered by id ascending.
func (r *GormAccountRepository) ListAll(ctx context.Context) ([]*accountDomain.Account, error) {
	var models []UserModel
	if err := conn(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	accounts := make([]*accountDomain.Account, len(models))
	for i, m := range models {
		accounts[i] = toDomainAccount(&m)
	}
	return accounts, nil
}

// Save persists a new account.
func (r *GormAccountRepository) Save(ctx context.Context, a *accountDomain.Account) error {
	if err := conn(ctx, r.db).Create(toUserModel(a)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("email already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Update persists a full replacement of an existing account's profile.
func (r *GormAccountRepository) Update(ctx context.Context, a *accountDomain.Account) error {
	model := toUserModel(a)
	result := conn(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":  model.Name,
			"email": model.Email,
			"phone": model.Phone,
			"role":  model.Role,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("email already registered")
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", model.ID.String())
	}
	return nil
}

// Delete removes a user row.
func (r *GormAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toUserModel(a *accountDomain.Account) *UserModel {
	return &UserModel{
		ID:           a.ID(),
		Name:         a.Name(),
		Email:        a.Email(),
		PasswordHash: a.PasswordHash(),
		Phone:        a.Phone(),
		Role:         string(a.Role()),
	}
}

func toDomainAccount(m *UserModel) *accountDomain.Account {
	return accountDomain.Reconstruct(
		m.ID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.Phone,
		accountDomain.Role(m.Role),
	)
}
