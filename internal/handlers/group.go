package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/models"
	"github.com/powerranking-app/powerranking/internal/services"
	"github.com/powerranking-app/powerranking/internal/utils"
	"gorm.io/gorm"
)

type CreateGroupRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	DiscordWebhook string `json:"discord_webhook"`
	SlackWebhook   string `json:"slack_webhook"`
}

type JoinGroupRequest struct {
	Code string `json:"code" binding:"required"`
}

type GroupMemberSummary struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

type GroupSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	InviteCode  string    `json:"invite_code"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int64     `json:"member_count"`
}

type GroupDetailResponse struct {
	GroupSummary
	Members []GroupMemberSummary `json:"members"`
}

type GroupDashboardResponse struct {
	Group          GroupSummary              `json:"group"`
	ScheduleCount  int64                     `json:"schedule_count"`
	PendingInvites int64                     `json:"pending_invites"`
	Schedules      []models.TrainingSchedule `json:"recent_schedules"`
}

// CreateGroup inserts the group and the creator's membership in one
// transaction, so a failed membership insert can never leave an orphan group.
func CreateGroup(ctx *gin.Context) {
	var body CreateGroupRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if strings.TrimSpace(body.Name) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Group name is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	code, err := utils.GenerateInviteCode()

	if err != nil {
		log.Printf("Failed to generate invite code: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	group := models.Group{
		Name:           strings.TrimSpace(body.Name),
		Description:    body.Description,
		InviteCode:     code,
		CreatedBy:      userID,
		DiscordWebhook: body.DiscordWebhook,
		SlackWebhook:   body.SlackWebhook,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		membership := models.GroupMembership{
			GroupID:  group.ID,
			UserID:   userID,
			JoinedAt: time.Now(),
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		log.Printf("Failed to create group: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	ctx.JSON(http.StatusCreated, GroupSummary{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		InviteCode:  group.InviteCode,
		CreatedBy:   group.CreatedBy,
		CreatedAt:   group.CreatedAt,
		MemberCount: 1,
	})
}

// JoinGroup adds the caller to the group matching the submitted invite code.
// Codes are matched case-insensitively by normalizing to uppercase.
func JoinGroup(ctx *gin.Context) {
	var body JoinGroupRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(body.Code))

	if len(code) != utils.InviteCodeLength {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invite code must be 6 characters"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var group models.Group

	if err := db.DB.Where("invite_code = ?", code).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			log.Printf("Failed to look up invite code: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		}
		return
	}

	member, err := isGroupMember(group.ID, userID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	if member {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Already a member of this group"})
		return
	}

	membership := models.GroupMembership{
		GroupID:  group.ID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		log.Printf("Failed to create membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)
	services.NotifyMemberJoined(group, displayName(currentUser.Username, currentUser.Email))
	BroadcastGroupRefresh(strconv.FormatUint(uint64(group.ID), 10))

	ctx.JSON(http.StatusOK, gin.H{"message": "Joined group", "group_id": group.ID})
}

// ListGroups returns the caller's groups, newest first, with member counts.
func ListGroups(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var groups []models.Group

	if err := db.DB.
		Joins("JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("group_memberships.user_id = ? AND group_memberships.deleted_at IS NULL", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error; err != nil {
		log.Printf("Failed to list groups for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve groups"})
		return
	}

	response := make([]GroupSummary, 0, len(groups))

	for _, group := range groups {
		var memberCount int64

		db.DB.Model(&models.GroupMembership{}).
			Where("group_id = ?", group.ID).
			Count(&memberCount)

		response = append(response, GroupSummary{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			InviteCode:  group.InviteCode,
			CreatedBy:   group.CreatedBy,
			CreatedAt:   group.CreatedAt,
			MemberCount: memberCount,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// GetGroup returns a group with its member list. Members-only.
func GetGroup(ctx *gin.Context) {
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
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		return
	}

	if !member {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this group"})
		return
	}

	var group models.Group

	if err := db.DB.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			log.Printf("Failed to fetch group %d: %v", groupID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		}
		return
	}

	var memberships []models.GroupMembership

	if err := db.DB.Where("group_id = ?", group.ID).Order("joined_at ASC").Find(&memberships).Error; err != nil {
		log.Printf("Failed to fetch members of group %d: %v", group.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	userIDs := make([]uint, 0, len(memberships))

	for _, membership := range memberships {
		userIDs = append(userIDs, membership.UserID)
	}

	usernames, err := usernamesByUserID(userIDs)

	if err != nil {
		log.Printf("Failed to fetch member profiles: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	members := make([]GroupMemberSummary, 0, len(memberships))

	for _, membership := range memberships {
		username, ok := usernames[membership.UserID]
		if !ok {
			username = UnknownUsername
		}

		members = append(members, GroupMemberSummary{
			UserID:   membership.UserID,
			Username: username,
			JoinedAt: membership.JoinedAt,
		})
	}

	ctx.JSON(http.StatusOK, GroupDetailResponse{
		GroupSummary: GroupSummary{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			InviteCode:  group.InviteCode,
			CreatedBy:   group.CreatedBy,
			CreatedAt:   group.CreatedAt,
			MemberCount: int64(len(members)),
		},
		Members: members,
	})
}

// GetGroupDashboard aggregates the group header numbers in one response.
func GetGroupDashboard(ctx *gin.Context) {
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
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard"})
		return
	}

	if !member {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this group"})
		return
	}

	var group models.Group

	if err := db.DB.First(&group, groupID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var memberCount, scheduleCount, pendingInvites int64

	db.DB.Model(&models.GroupMembership{}).Where("group_id = ?", group.ID).Count(&memberCount)
	db.DB.Model(&models.TrainingSchedule{}).Where("group_id = ?", group.ID).Count(&scheduleCount)
	db.DB.Model(&models.GroupInvite{}).
		Where("group_id = ? AND status = ?", group.ID, models.InviteStatusPending).
		Count(&pendingInvites)

	var schedules []models.TrainingSchedule

	db.DB.Where("group_id = ?", group.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&schedules)

	ctx.JSON(http.StatusOK, GroupDashboardResponse{
		Group: GroupSummary{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			InviteCode:  group.InviteCode,
			CreatedBy:   group.CreatedBy,
			CreatedAt:   group.CreatedAt,
			MemberCount: memberCount,
		},
		ScheduleCount:  scheduleCount,
		PendingInvites: pendingInvites,
		Schedules:      schedules,
	})
}

func displayName(username, email string) string {
	if username != "" {
		return username
	}
	return email
}
