// Package seed creates demo data for development databases. It works
// against any repository backend.
package seed

import (
	"fmt"
	"strings"
	"time"

	"unfake/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds domain entities with realistic fake content.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     time.Time
}

// NewFactory returns a Factory. A zero seed draws a random one.
func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 30
	}
	return &Factory{faker: gofakeit.New(seed), maxDays: maxDays, now: time.Now().UTC()}
}

// BuildUser returns an active user with the given password hash. n keeps
// usernames and emails unique within one run.
func (f *Factory) BuildUser(n int, passwordHash string) *models.User {
	base := strings.ToLower(f.faker.FirstName())
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, base)
	if len(base) < 3 {
		base = "user"
	}
	created := f.pastTime()
	return &models.User{
		ID:        models.NewID(),
		Username:  fmt.Sprintf("%s_%d", base, n),
		Email:     fmt.Sprintf("%s.%d@%s", base, n, f.faker.DomainName()),
		Password:  passwordHash,
		Role:      models.RoleUser,
		Status:    models.StatusActive,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// BuildPost returns a pending, unverified post submitted by authorID.
func (f *Factory) BuildPost(authorID string) *models.Post {
	created := f.pastTime()
	return &models.Post{
		ID:            models.NewID(),
		Title:         strings.TrimSuffix(f.faker.Sentence(f.faker.Number(4, 9)), "."),
		Source:        fmt.Sprintf("https://%s/%s", f.faker.DomainName(), f.faker.UUID()),
		Description:   f.faker.Paragraph(1, 3, 12, " "),
		SubmittedByID: authorID,
		Status:        models.PostPending,
		AdminFlag:     models.FlagUnverified,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

// Verdict returns a random vote direction.
func (f *Factory) Verdict() bool {
	return f.faker.Bool()
}

// Chance reports true with probability percent/100.
func (f *Factory) Chance(percent int) bool {
	return f.faker.Number(1, 100) <= percent
}

// Pick returns up to n distinct users in random order.
func (f *Factory) Pick(users []*models.User, n int) []*models.User {
	idx := make([]int, len(users))
	for i := range idx {
		idx[i] = i
	}
	f.faker.ShuffleInts(idx)
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]*models.User, 0, n)
	for _, i := range idx[:n] {
		out = append(out, users[i])
	}
	return out
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return f.now.Add(-back)
}
