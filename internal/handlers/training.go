package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/models"
	"github.com/powerranking-app/powerranking/internal/utils"
	"gorm.io/gorm"
)

type CreateScheduleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddExerciseRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Sets             int    `json:"sets" binding:"required"`
	Reps             int    `json:"reps" binding:"required"`
	WeightPercentage int    `json:"weight_percentage"`
	ExerciseType     string `json:"exercise_type" binding:"required"`
}

type ScheduleDetailResponse struct {
	Schedule        models.TrainingSchedule   `json:"schedule"`
	BasisExercises  []models.TrainingExercise `json:"basis_exercises"`
	TussenExercises []models.TrainingExercise `json:"tussen_exercises"`
}

// scheduleForMember loads a schedule and verifies the caller belongs to its
// group. Every schedule route goes through this gate.
func scheduleForMember(ctx *gin.Context, scheduleID uint64, userID uint) (*models.TrainingSchedule, bool) {
	var schedule models.TrainingSchedule

	if err := db.DB.First(&schedule, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		} else {
			log.Printf("Failed to fetch schedule %d: %v", scheduleID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedule"})
		}
		return nil, false
	}

	member, err := isGroupMember(schedule.GroupID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedule"})
		return nil, false
	}

	if !member {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this group"})
		return nil, false
	}

	return &schedule, true
}

// CreateSchedule adds a training schedule to a group. Members-only.
func CreateSchedule(ctx *gin.Context) {
	var body CreateScheduleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := isGroupMember(uint(groupID), userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	if !member {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this group"})
		return
	}

	schedule := models.TrainingSchedule{
		GroupID:     uint(groupID),
		Name:        strings.TrimSpace(body.Name),
		Description: body.Description,
		CreatedBy:   userID,
	}

	if err := db.DB.Create(&schedule).Error; err != nil {
		log.Printf("Failed to create schedule: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	ctx.JSON(http.StatusCreated, schedule)
}

// ListSchedules returns a group's schedules, newest first. Members-only.
func ListSchedules(ctx *gin.Context) {
	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := isGroupMember(uint(groupID), userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedules"})
		return
	}

	if !member {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this group"})
		return
	}

	var schedules []models.TrainingSchedule

	if err := db.DB.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&schedules).Error; err != nil {
		log.Printf("Failed to list schedules for group %d: %v", groupID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedules"})
		return
	}

	ctx.JSON(http.StatusOK, schedules)
}

// GetSchedule returns a schedule with its exercises split into the basis and
// tussen sections, each ordered by position.
func GetSchedule(ctx *gin.Context) {
	scheduleID, err := utils.GetScheduleID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	schedule, ok := scheduleForMember(ctx, scheduleID, userID)

	if !ok {
		return
	}

	var exercises []models.TrainingExercise

	if err := db.DB.Where("schedule_id = ?", schedule.ID).
		Order("order_index ASC").
		Find(&exercises).Error; err != nil {
		log.Printf("Failed to fetch exercises for schedule %d: %v", schedule.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exercises"})
		return
	}

	basis := make([]models.TrainingExercise, 0)
	tussen := make([]models.TrainingExercise, 0)

	for _, exercise := range exercises {
		if exercise.ExerciseType == models.ExerciseTypeBasis {
			basis = append(basis, exercise)
		} else {
			tussen = append(tussen, exercise)
		}
	}

	ctx.JSON(http.StatusOK, ScheduleDetailResponse{
		Schedule:        *schedule,
		BasisExercises:  basis,
		TussenExercises: tussen,
	})
}

// AddExercise appends an exercise to a schedule. The position is assigned
// inside the insert transaction as max(order_index)+1, so concurrent adds
// cannot race to the same slot.
func AddExercise(ctx *gin.Context) {
	var body AddExerciseRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	scheduleID, err := utils.GetScheduleID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if body.Sets < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Sets must be at least 1"})
		return
	}

	if body.Reps < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Reps must be at least 1"})
		return
	}

	if body.WeightPercentage < 0 || body.WeightPercentage > 100 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Weight percentage must be between 0 and 100"})
		return
	}

	if body.ExerciseType != models.ExerciseTypeBasis && body.ExerciseType != models.ExerciseTypeTussen {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Exercise type must be basis or tussen"})
		return
	}

	schedule, ok := scheduleForMember(ctx, scheduleID, userID)

	if !ok {
		return
	}

	exercise := models.TrainingExercise{
		ScheduleID:       schedule.ID,
		Name:             strings.TrimSpace(body.Name),
		Description:      body.Description,
		Sets:             body.Sets,
		Reps:             body.Reps,
		WeightPercentage: body.WeightPercentage,
		ExerciseType:     body.ExerciseType,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var maxOrder *int

		if err := tx.Model(&models.TrainingExercise{}).
			Where("schedule_id = ?", schedule.ID).
			Select("MAX(order_index)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}

		if maxOrder != nil {
			exercise.OrderIndex = *maxOrder + 1
		}

		return tx.Create(&exercise).Error
	})

	if err != nil {
		log.Printf("Failed to add exercise to schedule %d: %v", schedule.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add exercise"})
		return
	}

	ctx.JSON(http.StatusCreated, exercise)
}

// DeleteExercise removes an exercise. Remaining positions are left as-is;
// ordering only ever compares relative values, so gaps are harmless.
func DeleteExercise(ctx *gin.Context) {
	exerciseID, err := utils.GetExerciseID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var exercise models.TrainingExercise

	if err := db.DB.First(&exercise, exerciseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		} else {
			log.Printf("Failed to fetch exercise %d: %v", exerciseID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exercise"})
		}
		return
	}

	if _, ok := scheduleForMember(ctx, uint64(exercise.ScheduleID), userID); !ok {
		return
	}

	if err := db.DB.Delete(&exercise).Error; err != nil {
		log.Printf("Failed to delete exercise %d: %v", exerciseID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exercise"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Exercise deleted"})
}
