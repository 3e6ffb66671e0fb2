package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RankingEntry struct {
	ID       uint   `json:"id"`
	UserName string `json:"user_name"`
	Exercise string `json:"exercise"`
	Record   string `json:"record"`
	Date     string `json:"date"`
	Group    string `json:"group"`
}

// sampleRankings is placeholder data until personal records are persisted.
var sampleRankings = []RankingEntry{
	{ID: 1, UserName: "John Doe", Exercise: "Bench Press", Record: "225 lbs", Date: "2024-10-10", Group: "Gym Warriors"},
	{ID: 2, UserName: "Sarah Smith", Exercise: "Deadlift", Record: "315 lbs", Date: "2024-10-12", Group: "Gym Warriors"},
	{ID: 3, UserName: "Mike Johnson", Exercise: "Squat", Record: "405 lbs", Date: "2024-10-08", Group: "CrossFit Champions"},
	{ID: 4, UserName: "Emily Davis", Exercise: "5K Run", Record: "18:45", Date: "2024-10-11", Group: "Running Club"},
	{ID: 5, UserName: "Alex Wilson", Exercise: "Pull-ups", Record: "25 reps", Date: "2024-10-09", Group: "Gym Warriors"},
	{ID: 6, UserName: "Lisa Brown", Exercise: "Marathon", Record: "3:15:22", Date: "2024-10-05", Group: "Running Club"},
}

// FilterRankings narrows the sample set by group and exercise name. Empty or
// "All Groups"/"All Exercises" selections disable that filter.
func FilterRankings(group, exercise string) []RankingEntry {
	filtered := make([]RankingEntry, 0, len(sampleRankings))

	for _, entry := range sampleRankings {
		if group != "" && group != "All Groups" && entry.Group != group {
			continue
		}
		if exercise != "" && exercise != "All Exercises" && entry.Exercise != exercise {
			continue
		}
		filtered = append(filtered, entry)
	}

	return filtered
}

// GetRankings serves the ranking screen's rows, with optional group and
// exercise query filters, plus the distinct values to populate the dropdowns.
func GetRankings(ctx *gin.Context) {
	filtered := FilterRankings(ctx.Query("group"), ctx.Query("exercise"))

	groups := []string{"All Groups"}
	exercises := []string{"All Exercises"}
	seenGroups := make(map[string]bool)
	seenExercises := make(map[string]bool)

	for _, entry := range sampleRankings {
		if !seenGroups[entry.Group] {
			seenGroups[entry.Group] = true
			groups = append(groups, entry.Group)
		}
		if !seenExercises[entry.Exercise] {
			seenExercises[entry.Exercise] = true
			exercises = append(exercises, entry.Exercise)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"rankings":  filtered,
		"groups":    groups,
		"exercises": exercises,
	})
}
