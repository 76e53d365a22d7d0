package mongostore

import (
	"context"
	"fmt"

	"unfake/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type adminLogRepository struct {
	s *Store
}

func (r *adminLogRepository) Create(ctx context.Context, entry *models.AdminLog) error {
	if _, err := r.s.col(ColAdminLogs).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("create admin log: %w", err)
	}
	return nil
}

func (r *adminLogRepository) List(ctx context.Context) ([]models.AdminLog, error) {
	logs, err := findMany[models.AdminLog](ctx, r.s.col(ColAdminLogs), bson.D{}, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("list admin logs: %w", err)
	}

	adminIDs := make([]string, 0, len(logs))
	for _, l := range logs {
		adminIDs = append(adminIDs, l.AdminID)
	}
	admins, err := r.s.userRefs(ctx, uniqueStrings(adminIDs))
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}
	for i := range logs {
		logs[i].Admin = admins[logs[i].AdminID]
	}
	return logs, nil
}
