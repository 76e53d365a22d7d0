package models

import (
	"math"
	"time"
)

// PostStatus is the review state of a post.
type PostStatus string

const (
	PostPending  PostStatus = "pending"
	PostApproved PostStatus = "approved"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	return s == PostPending || s == PostApproved
}

// AdminFlag is the administrator's verdict on a post.
type AdminFlag string

const (
	FlagUnverified AdminFlag = "unverified"
	FlagTrue       AdminFlag = "true"
	FlagFalse      AdminFlag = "false"
)

// Valid reports whether f is a known flag.
func (f AdminFlag) Valid() bool {
	switch f {
	case FlagUnverified, FlagTrue, FlagFalse:
		return true
	}
	return false
}

// Post is a submitted news item.
type Post struct {
	ID             string     `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	Title          string     `gorm:"not null" json:"title" bson:"title"`
	Source         string     `gorm:"not null" json:"source" bson:"source"`
	Description    string     `gorm:"type:text;not null" json:"description" bson:"description"`
	SubmittedByID  string     `gorm:"column:submitted_by;size:36;not null;index" json:"-" bson:"submittedBy"`
	SubmittedBy    *UserRef   `gorm:"-" json:"submittedBy,omitempty" bson:"-"`
	Status         PostStatus `gorm:"size:16;not null;default:pending;index" json:"status" bson:"status"`
	TrueVotes      []string   `gorm:"-" json:"trueVotes" bson:"trueVotes"`
	FalseVotes     []string   `gorm:"-" json:"falseVotes" bson:"falseVotes"`
	AdminFlag      AdminFlag  `gorm:"size:16;not null;default:unverified;index" json:"adminFlag" bson:"adminFlag"`
	AdminReason    string     `gorm:"not null" json:"adminReason" bson:"adminReason"`
	TruePercentage int        `gorm:"-" json:"truePercentage" bson:"-"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// ComputeTally normalizes the vote sets and refreshes TruePercentage.
func (p *Post) ComputeTally() {
	if p.TrueVotes == nil {
		p.TrueVotes = []string{}
	}
	if p.FalseVotes == nil {
		p.FalseVotes = []string{}
	}
	p.TruePercentage = CalculatePercentage(len(p.TrueVotes), len(p.FalseVotes))
}

// PostVote is one voter's current verdict on a post. The composite key
// keeps a voter in at most one of the two sets.
type PostVote struct {
	PostID    string    `gorm:"primaryKey;size:36" json:"postId"`
	UserID    string    `gorm:"primaryKey;size:36;index" json:"userId"`
	Value     bool      `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteDirection is the body value accepted by the vote endpoint.
type VoteDirection string

const (
	VoteTrue  VoteDirection = "true"
	VoteFalse VoteDirection = "false"
)

// ParseVoteDirection accepts exactly "true" or "false".
func ParseVoteDirection(s string) (bool, bool) {
	switch VoteDirection(s) {
	case VoteTrue:
		return true, true
	case VoteFalse:
		return false, true
	}
	return false, false
}

// CalculatePercentage returns the rounded share of true votes, or 50 with no votes.
func CalculatePercentage(trueVotes, falseVotes int) int {
	total := trueVotes + falseVotes
	if total == 0 {
		return 50
	}
	return int(math.Round(float64(trueVotes) / float64(total) * 100))
}

// ModerationUpdate is a partial update applied by an administrator.
// A nil AdminReason leaves the reason untouched; an empty one clears it.
type ModerationUpdate struct {
	Status      string  `json:"status"`
	AdminFlag   string  `json:"adminFlag"`
	AdminReason *string `json:"adminReason"`
}

// IsEmpty reports whether the update would change nothing.
func (u ModerationUpdate) IsEmpty() bool {
	return u.Status == "" && u.AdminFlag == "" && u.AdminReason == nil
}

// PostFilter narrows post listings. Zero values match everything.
type PostFilter struct {
	Status    PostStatus
	AdminFlag AdminFlag
	Query     string
}

// DashboardStats are the headline counts shown to administrators.
type DashboardStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	PendingPosts int64 `json:"pendingPosts"`
	FlaggedTrue  int64 `json:"flaggedTrue"`
	FlaggedFalse int64 `json:"flaggedFalse"`
}
