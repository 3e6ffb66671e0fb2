package models

const (
	ExerciseTypeBasis  = "basis"  // primary lift
	ExerciseTypeTussen = "tussen" // accessory work between primaries
)

type TrainingExercise struct {
	BaseModel

	ScheduleID       uint   `gorm:"not null;index" json:"schedule_id"`
	Name             string `gorm:"not null" json:"name"`
	Description      string `json:"description"`
	Sets             int    `gorm:"not null" json:"sets"`
	Reps             int    `gorm:"not null" json:"reps"`
	WeightPercentage int    `gorm:"not null" json:"weight_percentage"` // percentage of one-rep max, 0-100
	OrderIndex       int    `gorm:"not null" json:"order_index"`
	ExerciseType     string `gorm:"not null" json:"exercise_type"` // "basis" or "tussen"

	// Relationships
	Schedule TrainingSchedule `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
