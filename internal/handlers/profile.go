package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/models"
	"github.com/powerranking-app/powerranking/internal/types"
	"github.com/powerranking-app/powerranking/internal/utils"
	"gorm.io/gorm"
)

type ChooseUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

type ProfileGroupSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int64  `json:"member_count"`
}

type GetProfileResponse struct {
	Profile types.ProfileResponse `json:"profile"`
	Groups  []ProfileGroupSummary `json:"groups"`
}

// GetMyProfile reports whether the caller has picked a username yet. A missing
// or empty profile is the "needs setup" signal, not a failure.
func GetMyProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"needs_username": true})
			return
		}
		log.Printf("Failed to fetch profile for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	if profile.Username == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"needs_username": true})
		return
	}

	ctx.JSON(http.StatusOK, types.ProfileResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		Username:  profile.Username,
		CreatedAt: profile.CreatedAt.Format(time.RFC3339),
	})
}

// ChooseUsername upserts the caller's profile. Uniqueness rests on the
// username index, so a taken name comes back as a 409 even when two sessions
// submit it at the same time.
func ChooseUsername(ctx *gin.Context) {
	var body ChooseUsernameRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	username := strings.TrimSpace(body.Username)

	if username == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile

	err = db.DB.Where("user_id = ?", userID).First(&profile).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{UserID: userID, Username: username}
		err = db.DB.Create(&profile).Error
	case err == nil:
		profile.Username = username
		err = db.DB.Save(&profile).Error
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Username is already taken"})
		return
	}

	if err != nil {
		log.Printf("Failed to upsert profile for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save username"})
		return
	}

	ctx.JSON(http.StatusOK, types.ProfileResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		Username:  profile.Username,
		CreatedAt: profile.CreatedAt.Format(time.RFC3339),
	})
}

// GetProfile returns a user's public profile with the groups they belong to,
// joined in a single query rather than matched up caller-side.
func GetProfile(ctx *gin.Context) {
	userID, err := utils.GetUserIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		} else {
			log.Printf("Failed to fetch profile %d: %v", userID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}

	var groups []models.Group

	if err := db.DB.
		Joins("JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("group_memberships.user_id = ? AND group_memberships.deleted_at IS NULL", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error; err != nil {
		log.Printf("Failed to fetch groups for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve groups"})
		return
	}

	summaries := make([]ProfileGroupSummary, 0, len(groups))

	for _, group := range groups {
		var memberCount int64

		db.DB.Model(&models.GroupMembership{}).
			Where("group_id = ?", group.ID).
			Count(&memberCount)

		summaries = append(summaries, ProfileGroupSummary{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			MemberCount: memberCount,
		})
	}

	ctx.JSON(http.StatusOK, GetProfileResponse{
		Profile: types.ProfileResponse{
			ID:        profile.ID,
			UserID:    profile.UserID,
			Username:  profile.Username,
			CreatedAt: profile.CreatedAt.Format(time.RFC3339),
		},
		Groups: summaries,
	})
}
