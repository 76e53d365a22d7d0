package repository

import (
	"context"
	"fmt"

	"unfake/internal/models"

	"gorm.io/gorm"
)

type adminLogRepository struct {
	db *gorm.DB
}

// NewAdminLogRepository returns a new AdminLogRepository implementation.
func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

func (r *adminLogRepository) Create(ctx context.Context, entry *models.AdminLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create admin log: %w", err)
	}
	return nil
}

func (r *adminLogRepository) List(ctx context.Context) ([]models.AdminLog, error) {
	logs := []models.AdminLog{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list admin logs: %w", err)
	}

	adminIDs := make([]string, 0, len(logs))
	for _, l := range logs {
		adminIDs = append(adminIDs, l.AdminID)
	}
	admins, err := usernamesByID(ctx, r.db, uniqueStrings(adminIDs))
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}
	for i := range logs {
		logs[i].Admin = admins[logs[i].AdminID]
	}
	return logs, nil
}
