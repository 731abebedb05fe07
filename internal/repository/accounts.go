package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"gorm.io/gorm"
)

// AccountStore backs the auth endpoints.
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AccountStore) FindByID(ctx context.Context, uid string) (*models.User, error) {
	id, err := uuid.Parse(uid)
	if err != nil {
		return nil, nil
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountStore) PasswordHash(ctx context.Context, uid uuid.UUID) (string, error) {
	var cred models.Credential
	if err := s.db.WithContext(ctx).First(&cred, "user_id = ?", uid).Error; err != nil {
		return "", err
	}
	return cred.PasswordHash, nil
}

func (s *AccountStore) LoginTaken(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (s *AccountStore) CreateAccount(ctx context.Context, user *models.User, passwordHash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Credential{
			UserID:       user.ID,
			PasswordHash: passwordHash,
		}).Error
	})
}
