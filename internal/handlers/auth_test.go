package handlers

import (
	"net/http"
	"testing"

	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)

	ctx, w := testContext(t, http.MethodPost, RegisterRequest{
		Email:    "  Alice@Example.COM ",
		Password: "password123",
	}, nil, nil)
	Register(ctx)

	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		Token string `json:"token"`
		User  struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeResponse(t, w, &registered)

	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice@example.com", registered.User.Email)

	var user models.User
	require.NoError(t, db.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.NotEqual(t, "password123", user.PasswordHash)

	ctx, w = testContext(t, http.MethodPost, LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}, nil, nil)
	Login(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "alice@example.com", "alice")

	ctx, w := testContext(t, http.MethodPost, RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}, nil, nil)
	Register(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	setupTestDB(t)

	ctx, w := testContext(t, http.MethodPost, RegisterRequest{
		Email:    "alice@example.com",
		Password: "short",
	}, nil, nil)
	Register(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "alice@example.com", "alice")

	ctx, w := testContext(t, http.MethodPost, LoginRequest{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	}, nil, nil)
	Login(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	decodeResponse(t, w, &response)
	assert.Equal(t, "Invalid email or password", response["error"])
}

func TestLoginUnknownEmail(t *testing.T) {
	setupTestDB(t)

	ctx, w := testContext(t, http.MethodPost, LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	}, nil, nil)
	Login(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Same message as a wrong password, so probes learn nothing
	var response map[string]string
	decodeResponse(t, w, &response)
	assert.Equal(t, "Invalid email or password", response["error"])
}

func TestLoginIncludesUsername(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "alice@example.com", "alice")

	ctx, w := testContext(t, http.MethodPost, LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}, nil, nil)
	Login(ctx)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeResponse(t, w, &response)
	assert.Equal(t, "alice", response.User.Username)
}
