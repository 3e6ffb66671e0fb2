package models

type TrainingSchedule struct {
	BaseModel

	GroupID     uint   `gorm:"not null;index" json:"group_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `gorm:"not null" json:"created_by"`

	// Relationships
	Group     Group              `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Exercises []TrainingExercise `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
