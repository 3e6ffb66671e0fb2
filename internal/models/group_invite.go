package models

import "gorm.io/gorm"

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusExpired  = "expired"
)

// GroupInvite is addressed by email; InvitedUserID stays nil until the
// recipient resolves it, so invites can be sent before the recipient has an
// account.
type GroupInvite struct {
	gorm.Model

	GroupID          uint   `gorm:"not null;index"`
	InvitedBy        uint   `gorm:"not null"`
	InvitedUserEmail string `gorm:"not null;index"`
	InvitedUserID    *uint  `gorm:"index"`
	Status           string `gorm:"not null;default:pending"`

	// Relationships
	Group   Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Inviter User  `gorm:"foreignKey:InvitedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
