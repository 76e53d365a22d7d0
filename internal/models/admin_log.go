package models

import "time"

// AdminAction tags an audit log entry.
type AdminAction string

const (
	ActionPostModerated     AdminAction = "POST_MODERATED"
	ActionPostDeleted       AdminAction = "POST_DELETED"
	ActionUserStatusChanged AdminAction = "USER_STATUS_CHANGED"
)

// AdminLog is an append-only record of an administrative action.
type AdminLog struct {
	ID        string      `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	AdminID   string      `gorm:"column:admin_id;size:36;not null;index" json:"-" bson:"admin"`
	Admin     *UserRef    `gorm:"-" json:"admin,omitempty" bson:"-"`
	Action    AdminAction `gorm:"size:32;not null" json:"action" bson:"action"`
	Details   string      `gorm:"type:text;not null" json:"details" bson:"details"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt" bson:"createdAt"`
}
