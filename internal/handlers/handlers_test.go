package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/auth"
	"github.com/powerranking-app/powerranking/internal/middleware"
	"github.com/powerranking-app/powerranking/internal/models"
	"github.com/powerranking-app/powerranking/internal/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB swaps the global connection for a fresh in-memory database.
// Each test gets its own named shared-cache database so the connection pool
// sees one consistent store.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	db.DB = conn
	require.NoError(t, db.MigrateDatabase())
	require.NoError(t, auth.InitJWTSecret(true))
}

func createTestUser(t *testing.T, email, username string) middleware.AuthenticatedUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.DB.Create(&user).Error)

	if username != "" {
		profile := models.Profile{UserID: user.ID, Username: username}
		require.NoError(t, db.DB.Create(&profile).Error)
	}

	return middleware.AuthenticatedUser{ID: user.ID, Email: email, Username: username}
}

func createTestGroup(t *testing.T, creator middleware.AuthenticatedUser, name, code string) models.Group {
	t.Helper()

	group := models.Group{Name: name, InviteCode: code, CreatedBy: creator.ID}
	require.NoError(t, db.DB.Create(&group).Error)

	membership := models.GroupMembership{GroupID: group.ID, UserID: creator.ID}
	require.NoError(t, db.DB.Create(&membership).Error)

	return group
}

func testContext(t *testing.T, method string, body interface{}, user *middleware.AuthenticatedUser, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	var req *http.Request

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, "/", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}

	ctx.Request = req
	ctx.Params = params

	if user != nil {
		ctx.Set(types.ContextUserKey, *user)
	}

	return ctx, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func groupParam(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
