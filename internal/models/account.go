package models

import (
	"time"
)

// Account represents a community user as supplied by the auth provider.
// This service never authenticates; it only mirrors identity and privilege
// flags referenced by posts, votes and moderation actions.
type Account struct {
	ID                     int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name                   string    `gorm:"type:varchar(64);not null;uniqueIndex:community_accounts_ux1;column:name"`
	IsModerator            bool      `gorm:"not null;default:false;column:is_moderator"`
	IsVerifiedProfessional bool      `gorm:"not null;default:false;column:is_verified_professional"`
	CreatedAt              time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "community_accounts"
}
