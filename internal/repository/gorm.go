package repository

import (
	"context"
	"errors"
	"strings"

	"unfake/internal/models"

	"gorm.io/gorm"
)

type gormBackend struct {
	db *gorm.DB
}

// NewGormStores wires the relational repositories over db.
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Users:   NewUserRepository(db),
		Posts:   NewPostRepository(db),
		Logs:    NewAdminLogRepository(db),
		Backend: &gormBackend{db: db},
	}
}

func (b *gormBackend) Name() string {
	return b.db.Name()
}

func (b *gormBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *gormBackend) Close(_ context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}

// usernamesByID resolves user references for a batch of ids.
func usernamesByID(ctx context.Context, db *gorm.DB, ids []string) (map[string]*models.UserRef, error) {
	refs := make(map[string]*models.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var users []models.User
	if err := db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		refs[users[i].ID] = users[i].Ref()
	}
	return refs, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
