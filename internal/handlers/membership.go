package handlers

import (
	"errors"

	"github.com/powerranking-app/powerranking/db"
	"github.com/powerranking-app/powerranking/internal/models"
	"gorm.io/gorm"
)

// UnknownUsername is shown for members whose account exists but who never
// finished choosing a username.
const UnknownUsername = "Unknown"

func isGroupMember(groupID, userID uint) (bool, error) {
	var membership models.GroupMembership

	err := db.DB.Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error

	if err == nil {
		return true, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	return false, err
}

// usernamesByUserID maps user ids to usernames for one group's members.
// Members without a profile are simply absent from the map.
func usernamesByUserID(userIDs []uint) (map[uint]string, error) {
	usernames := make(map[uint]string, len(userIDs))

	if len(userIDs) == 0 {
		return usernames, nil
	}

	var profiles []models.Profile

	if err := db.DB.Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}

	for _, profile := range profiles {
		usernames[profile.UserID] = profile.Username
	}

	return usernames, nil
}
