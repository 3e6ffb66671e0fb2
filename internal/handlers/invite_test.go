package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInviteRequiresMembership(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "alice@example.com", "alice")
	outsider := createTestUser(t, "eve@example.com", "eve")
	group := createTestGroup(t, creator, "Gym Warriors", "ABC123")

	ctx, w := testContext(t, http.MethodPost, CreateInviteRequest{Email: "bob@example.com"}, &outsider,
		gin.Params{{Key: "group_id", Value: groupParam(group.ID)}})
	CreateInvite(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInviteByEmailThenRegisterAndAccept(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "alice@example.com", "alice")
	group := createTestGroup(t, creator, "Gym Warriors", "ABC123")

	// Invite an email with no account behind it yet
	ctx, w := testContext(t, http.MethodPost, CreateInviteRequest{Email: "Bob@Example.com"}, &creator,
		gin.Params{{Key: "group_id", Value: groupParam(group.ID)}})
	CreateInvite(ctx)
	require.Equal(t, http.StatusCreated, w.Code)

	var invite models.GroupInvite
	require.NoError(t, db.DB.Where("group_id = ?", group.ID).First(&invite).Error)
	assert.Equal(t, "bob@example.com", invite.InvitedUserEmail)
	assert.Nil(t, invite.InvitedUserID)
	assert.Equal(t, models.InviteStatusPending, invite.Status)

	// Bob registers later; the invite surfaces by email match
	bob := createTestUser(t, "bob@example.com", "bob")

	ctx, w = testContext(t, http.MethodGet, nil, &bob, nil)
	ListInvites(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	var pending []InviteSummary
	decodeResponse(t, w, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, "Gym Warriors", pending[0].GroupName)
	assert.Equal(t, "alice", pending[0].InviterUsername)

	ctx, w = testContext(t, http.MethodPost, nil, &bob,
		gin.Params{{Key: "invite_id", Value: groupParam(invite.ID)}})
	AcceptInvite(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.DB.First(&invite, invite.ID).Error)
	assert.Equal(t, models.InviteStatusAccepted, invite.Status)
	require.NotNil(t, invite.InvitedUserID)
	assert.Equal(t, bob.ID, *invite.InvitedUserID)

	var membership models.GroupMembership
	require.NoError(t, db.DB.Where("group_id = ? AND user_id = ?", group.ID, bob.ID).First(&membership).Error)
}

func TestAcceptInviteIsIdempotentOnMembership(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "alice@example.com", "alice")
	bob := createTestUser(t, "bob@example.com", "bob")
	group := createTestGroup(t, creator, "Gym Warriors", "ABC123")

	invite := models.GroupInvite{
		GroupID:          group.ID,
		InvitedBy:        creator.ID,
		InvitedUserEmail: "bob@example.com",
		InvitedUserID:    &bob.ID,
		Status:           models.InviteStatusPending,
	}
	require.NoError(t, db.DB.Create(&invite).Error)

	// Bob already joined by code before accepting the invite
	membership := models.GroupMembership{GroupID: group.ID, UserID: bob.ID}
	require.NoError(t, db.DB.Create(&membership).Error)

	ctx, w := testContext(t, http.MethodPost, nil, &bob,
		gin.Params{{Key: "invite_id", Value: groupParam(invite.ID)}})
	AcceptInvite(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.DB.Model(&models.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	// A second accept is rejected without touching the membership
	ctx, w = testContext(t, http.MethodPost, nil, &bob,
		gin.Params{{Key: "invite_id", Value: groupParam(invite.ID)}})
	AcceptInvite(ctx)
	assert.Equal(t, http.StatusConflict, w.Code)

	db.DB.Model(&models.GroupMembership{}).
		Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAcceptInviteAddressedToSomeoneElse(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "alice@example.com", "alice")
	eve := createTestUser(t, "eve@example.com", "eve")
	group := createTestGroup(t, creator, "Gym Warriors", "ABC123")

	invite := models.GroupInvite{
		GroupID:          group.ID,
		InvitedBy:        creator.ID,
		InvitedUserEmail: "bob@example.com",
		Status:           models.InviteStatusPending,
	}
	require.NoError(t, db.DB.Create(&invite).Error)

	ctx, w := testContext(t, http.MethodPost, nil, &eve,
		gin.Params{{Key: "invite_id", Value: groupParam(invite.ID)}})
	AcceptInvite(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.DB.Model(&models.GroupMembership{}).Where("user_id = ?", eve.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeclineInvite(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "alice@example.com", "alice")
	bob := createTestUser(t, "bob@example.com", "bob")
	group := createTestGroup(t, creator, "Gym Warriors", "ABC123")

	invite := models.GroupInvite{
		GroupID:          group.ID,
		InvitedBy:        creator.ID,
		InvitedUserEmail: "bob@example.com",
		Status:           models.InviteStatusPending,
	}
	require.NoError(t, db.DB.Create(&invite).Error)

	ctx, w := testContext(t, http.MethodPost, nil, &bob,
		gin.Params{{Key: "invite_id", Value: groupParam(invite.ID)}})
	DeclineInvite(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.DB.First(&invite, invite.ID).Error)
	assert.Equal(t, models.InviteStatusDeclined, invite.Status)

	var count int64
	db.DB.Model(&models.GroupMembership{}).Where("user_id = ?", bob.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListInvitesExcludesResolved(t *testing.T) {
	setupTestDB(t)
	creator := createTestUser(t, "alice@example.com", "alice")
	bob := createTestUser(t, "bob@example.com", "bob")
	group := createTestGroup(t, creator, "Gym Warriors", "ABC123")

	for _, status := range []string{
		models.InviteStatusPending,
		models.InviteStatusAccepted,
		models.InviteStatusDeclined,
		models.InviteStatusExpired,
	} {
		invite := models.GroupInvite{
			GroupID:          group.ID,
			InvitedBy:        creator.ID,
			InvitedUserEmail: "bob@example.com",
			Status:           status,
		}
		require.NoError(t, db.DB.Create(&invite).Error)
	}

	ctx, w := testContext(t, http.MethodGet, nil, &bob, nil)
	ListInvites(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	var pending []InviteSummary
	decodeResponse(t, w, &pending)

	require.Len(t, pending, 1)
	assert.Equal(t, models.InviteStatusPending, pending[0].Status)
}
