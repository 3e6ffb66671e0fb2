package models

// Profile holds the public identity of a user. It is created lazily: a fresh
// account has no profile until the user picks a username.
type Profile struct {
	BaseModel

	UserID   uint   `gorm:"uniqueIndex;not null"`
	Username string `gorm:"uniqueIndex;not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
