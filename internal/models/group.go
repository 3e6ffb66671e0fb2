package models

import "gorm.io/gorm"

type Group struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	InviteCode  string `gorm:"uniqueIndex;not null"` // 6 uppercase alphanumerics
	CreatedBy   uint   `gorm:"not null;index"`

	// Optional outbound notification hooks
	DiscordWebhook string
	SlackWebhook   string

	// Relationships
	Creator           User               `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships       []GroupMembership  `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invites           []GroupInvite      `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TrainingSchedules []TrainingSchedule `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
