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

func TestGetMyProfileNeedsUsername(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com", "")

	ctx, w := testContext(t, http.MethodGet, nil, &user, nil)
	GetMyProfile(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]bool
	decodeResponse(t, w, &response)
	assert.True(t, response["needs_username"])
}

func TestChooseUsername(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com", "")

	ctx, w := testContext(t, http.MethodPut, ChooseUsernameRequest{Username: "  alice  "}, &user, nil)
	ChooseUsername(ctx)

	require.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	require.NoError(t, db.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "alice", profile.Username)

	// Now the profile resolves
	ctx, w = testContext(t, http.MethodGet, nil, &user, nil)
	GetMyProfile(ctx)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChooseUsernameTaken(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "alice@example.com", "alice")
	bob := createTestUser(t, "bob@example.com", "")

	ctx, w := testContext(t, http.MethodPut, ChooseUsernameRequest{Username: "alice"}, &bob, nil)
	ChooseUsername(ctx)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChooseUsernameTakenOnRename(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "alice@example.com", "alice")
	bob := createTestUser(t, "bob@example.com", "bob")

	// Renaming onto a taken name hits the unique index, not a pre-check, so
	// the losing side of a race gets the same 409
	ctx, w := testContext(t, http.MethodPut, ChooseUsernameRequest{Username: "alice"}, &bob, nil)
	ChooseUsername(ctx)

	assert.Equal(t, http.StatusConflict, w.Code)

	var profile models.Profile
	require.NoError(t, db.DB.Where("user_id = ?", bob.ID).First(&profile).Error)
	assert.Equal(t, "bob", profile.Username)
}

func TestChooseUsernameKeepsOwnName(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com", "alice")

	// Re-submitting your current username is not a conflict
	ctx, w := testContext(t, http.MethodPut, ChooseUsernameRequest{Username: "alice"}, &user, nil)
	ChooseUsername(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetProfileWithGroups(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com", "alice")
	createTestGroup(t, user, "Gym Warriors", "ABC123")

	ctx, w := testContext(t, http.MethodGet, nil, &user,
		gin.Params{{Key: "user_id", Value: groupParam(user.ID)}})
	GetProfile(ctx)

	require.Equal(t, http.StatusOK, w.Code)

	var response GetProfileResponse
	decodeResponse(t, w, &response)

	assert.Equal(t, "alice", response.Profile.Username)
	require.Len(t, response.Groups, 1)
	assert.Equal(t, "Gym Warriors", response.Groups[0].Name)
	assert.Equal(t, int64(1), response.Groups[0].MemberCount)
}

func TestGetProfileNotFound(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice@example.com", "alice")

	ctx, w := testContext(t, http.MethodGet, nil, &user,
		gin.Params{{Key: "user_id", Value: "9999"}})
	GetProfile(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
