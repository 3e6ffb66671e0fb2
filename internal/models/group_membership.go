package models

import "time"

type GroupMembership struct {
	BaseModel

	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_user"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_group_user"`
	JoinedAt time.Time `gorm:"not null"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
