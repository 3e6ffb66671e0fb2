package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func getUintParam(ctx *gin.Context, name string, missing, invalid string) (uint64, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(missing)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New(invalid)
	}

	return id, nil
}

func GetGroupID(ctx *gin.Context) (uint64, error) {
	return getUintParam(ctx, "group_id", "Group ID not found", "Invalid Group ID")
}

func GetScheduleID(ctx *gin.Context) (uint64, error) {
	return getUintParam(ctx, "schedule_id", "Schedule ID not found", "Invalid Schedule ID")
}

func GetExerciseID(ctx *gin.Context) (uint64, error) {
	return getUintParam(ctx, "exercise_id", "Exercise ID not found", "Invalid Exercise ID")
}

func GetInviteID(ctx *gin.Context) (uint64, error) {
	return getUintParam(ctx, "invite_id", "Invite ID not found", "Invalid Invite ID")
}

func GetUserIDParam(ctx *gin.Context) (uint64, error) {
	return getUintParam(ctx, "user_id", "User ID not found", "Invalid User ID")
}
