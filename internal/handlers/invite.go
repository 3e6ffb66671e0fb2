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

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type InviteSummary struct {
	ID              uint      `json:"id"`
	GroupID         uint      `json:"group_id"`
	GroupName       string    `json:"group_name"`
	InviterUsername string    `json:"inviter_username"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateInvite records a pending invite addressed to an email. The invitee
// does not need an account yet; the invite binds to them when they act on it.
func CreateInvite(ctx *gin.Context) {
	var body CreateInviteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	groupID, err := utils.GetGroupID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := isGroupMember(uint(groupID), currentUser.ID)

	if err != nil {
		log.Printf("Failed to check membership: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
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

	email := strings.ToLower(strings.TrimSpace(body.Email))

	invite := models.GroupInvite{
		GroupID:          group.ID,
		InvitedBy:        currentUser.ID,
		InvitedUserEmail: email,
		Status:           models.InviteStatusPending,
	}

	// If the invitee already has an account, bind the invite to it up front so
	// it shows up in their list without an email match.
	var invitedUser models.User

	if err := db.DB.Where("email = ?", email).First(&invitedUser).Error; err == nil {
		invite.InvitedUserID = &invitedUser.ID
	}

	if err := db.DB.Create(&invite).Error; err != nil {
		log.Printf("Failed to create invite: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
		return
	}

	services.NotifyInviteCreated(group, email, displayName(currentUser.Username, currentUser.Email))

	ctx.JSON(http.StatusCreated, gin.H{
		"id":       invite.ID,
		"group_id": invite.GroupID,
		"email":    invite.InvitedUserEmail,
		"status":   invite.Status,
	})
}

// ListInvites returns the caller's pending invites, matched either by bound
// user id or by email, newest first.
func ListInvites(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var invites []models.GroupInvite

	if err := db.DB.Preload("Group").
		Where("status = ? AND (invited_user_id = ? OR invited_user_email = ?)",
			models.InviteStatusPending, currentUser.ID, strings.ToLower(currentUser.Email)).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		log.Printf("Failed to list invites for user %d: %v", currentUser.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invites"})
		return
	}

	inviterIDs := make([]uint, 0, len(invites))

	for _, invite := range invites {
		inviterIDs = append(inviterIDs, invite.InvitedBy)
	}

	usernames, err := usernamesByUserID(inviterIDs)

	if err != nil {
		log.Printf("Failed to fetch inviter profiles: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invites"})
		return
	}

	response := make([]InviteSummary, 0, len(invites))

	for _, invite := range invites {
		inviter, ok := usernames[invite.InvitedBy]
		if !ok {
			inviter = UnknownUsername
		}

		response = append(response, InviteSummary{
			ID:              invite.ID,
			GroupID:         invite.GroupID,
			GroupName:       invite.Group.Name,
			InviterUsername: inviter,
			Status:          invite.Status,
			CreatedAt:       invite.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// pendingInviteForUpdate re-reads the invite inside the transaction and checks
// it is still pending and addressed to the caller.
func pendingInviteForUpdate(tx *gorm.DB, inviteID uint64, userID uint, email string) (*models.GroupInvite, int, string) {
	var invite models.GroupInvite

	if err := tx.First(&invite, inviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, "Invite not found"
		}
		return nil, http.StatusInternalServerError, "Failed to load invite"
	}

	addressed := (invite.InvitedUserID != nil && *invite.InvitedUserID == userID) ||
		strings.EqualFold(invite.InvitedUserEmail, email)

	if !addressed {
		return nil, http.StatusForbidden, "This invite is not addressed to you"
	}

	if invite.Status != models.InviteStatusPending {
		return nil, http.StatusConflict, "Invite is no longer pending"
	}

	return &invite, 0, ""
}

// AcceptInvite marks the invite accepted and adds the membership in one
// transaction. FirstOrCreate keeps a double-accept from duplicating the row.
func AcceptInvite(ctx *gin.Context) {
	inviteID, err := utils.GetInviteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var groupID uint
	status := 0
	message := ""

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		invite, failStatus, failMessage := pendingInviteForUpdate(tx, inviteID, currentUser.ID, currentUser.Email)

		if invite == nil {
			status = failStatus
			message = failMessage
			return errors.New(failMessage)
		}

		membership := models.GroupMembership{
			GroupID: invite.GroupID,
			UserID:  currentUser.ID,
		}

		if err := tx.Where("group_id = ? AND user_id = ?", invite.GroupID, currentUser.ID).
			Attrs(models.GroupMembership{JoinedAt: time.Now()}).
			FirstOrCreate(&membership).Error; err != nil {
			return err
		}

		invite.Status = models.InviteStatusAccepted
		invite.InvitedUserID = &currentUser.ID

		if err := tx.Save(invite).Error; err != nil {
			return err
		}

		groupID = invite.GroupID
		return nil
	})

	if err != nil {
		if status != 0 {
			ctx.JSON(status, gin.H{"error": message})
			return
		}
		log.Printf("Failed to accept invite %d: %v", inviteID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invite"})
		return
	}

	var group models.Group

	if err := db.DB.First(&group, groupID).Error; err == nil {
		services.NotifyMemberJoined(group, displayName(currentUser.Username, currentUser.Email))
	}

	BroadcastGroupRefresh(strconv.FormatUint(uint64(groupID), 10))

	ctx.JSON(http.StatusOK, gin.H{"message": "Invite accepted", "group_id": groupID})
}

// DeclineInvite marks the invite declined and binds it to the caller's
// account so it never resurfaces by email match.
func DeclineInvite(ctx *gin.Context) {
	inviteID, err := utils.GetInviteID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	status := 0
	message := ""

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		invite, failStatus, failMessage := pendingInviteForUpdate(tx, inviteID, currentUser.ID, currentUser.Email)

		if invite == nil {
			status = failStatus
			message = failMessage
			return errors.New(failMessage)
		}

		invite.Status = models.InviteStatusDeclined
		invite.InvitedUserID = &currentUser.ID

		return tx.Save(invite).Error
	})

	if err != nil {
		if status != 0 {
			ctx.JSON(status, gin.H{"error": message})
			return
		}
		log.Printf("Failed to decline invite %d: %v", inviteID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline invite"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invite declined"})
}
