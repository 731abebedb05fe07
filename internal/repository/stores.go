// Package repository provides the GORM-backed implementations of the store
// interfaces consumed by the service layer.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"github.com/mertcakir/rigcheck/internal/services"
	"gorm.io/gorm"
)

type IdentityStore struct {
	db *gorm.DB
}

func NewIdentityStore(db *gorm.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

func (s *IdentityStore) DeleteAccount(ctx context.Context, uid string) error {
	id, err := uuid.Parse(uid)
	if err != nil {
		return services.ErrAccountNotFound
	}
	res := s.db.WithContext(ctx).Delete(&models.Credential{}, "user_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrAccountNotFound
	}
	return nil
}

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Get(ctx context.Context, uid string) (*models.User, error) {
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

func (s *UserStore) Delete(ctx context.Context, uid string) error {
	id, err := uuid.Parse(uid)
	if err != nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

type InspectionStore struct {
	db *gorm.DB
}

func NewInspectionStore(db *gorm.DB) *InspectionStore {
	return &InspectionStore{db: db}
}

func (s *InspectionStore) FindByInspectorName(ctx context.Context, name string) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := s.db.WithContext(ctx).
		Where("inspector_name = ?", name).
		Find(&inspections).Error
	return inspections, err
}

func (s *InspectionStore) MarkInspectorDeleted(ctx context.Context, id uuid.UUID, mark services.InspectorMark) error {
	return s.db.WithContext(ctx).
		Model(&models.Inspection{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"inspector_deleted":        true,
			"inspector_deleted_at":     mark.DeletedAt,
			"inspector_name":           mark.MarkedName,
			"original_inspector_name":  mark.OriginalName,
			"original_inspector_id":    mark.OriginalID,
			"original_inspector_email": mark.OriginalEmail,
		}).Error
}

type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) DeleteByTargetUser(ctx context.Context, target string) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Notification{}, "target_user = ?", target)
	return res.RowsAffected, res.Error
}

type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Record(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
