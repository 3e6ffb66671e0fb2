package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/powerranking-app/powerranking/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorGreen = 65280   // #00FF00 - member joined
	ColorBlue  = 3447003 // #3498DB - invite sent
	Username   = "PowerRanking"
)

// NotifyMemberJoined posts to the group's configured webhooks when someone
// joins. Delivery failures are logged, never surfaced to the joining request.
func NotifyMemberJoined(group models.Group, memberName string) {
	if group.DiscordWebhook != "" {
		if err := sendDiscordMemberJoined(group.DiscordWebhook, group, memberName); err != nil {
			log.Printf("discord: %v", err)
		}
	}

	if group.SlackWebhook != "" {
		if err := sendSlackMemberJoined(group.SlackWebhook, group, memberName); err != nil {
			log.Printf("slack: %v", err)
		}
	}
}

// NotifyInviteCreated posts to the group's configured webhooks when a member
// invites someone by email.
func NotifyInviteCreated(group models.Group, invitedEmail, inviterName string) {
	if group.DiscordWebhook != "" {
		if err := sendDiscordInviteCreated(group.DiscordWebhook, group, invitedEmail, inviterName); err != nil {
			log.Printf("discord: %v", err)
		}
	}

	if group.SlackWebhook != "" {
		if err := sendSlackInviteCreated(group.SlackWebhook, group, invitedEmail, inviterName); err != nil {
			log.Printf("slack: %v", err)
		}
	}
}

func sendDiscordMemberJoined(webhookURL string, group models.Group, memberName string) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "💪 **NEW MEMBER**",
				Description: fmt.Sprintf("**%s** joined **%s**.", memberName, group.Name),
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "👤 Member", Value: memberName, Inline: true},
					{Name: "🏋️ Group", Value: group.Name, Inline: true},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Group: %s | PowerRanking", group.Name),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return sendDiscordWebhook(webhookURL, payload)
}

func sendDiscordInviteCreated(webhookURL string, group models.Group, invitedEmail, inviterName string) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "✉️ **INVITE SENT**",
				Description: fmt.Sprintf("**%s** invited someone to **%s**.", inviterName, group.Name),
				Color:       ColorBlue,
				Fields: []DiscordWebhookField{
					{Name: "👤 Invited", Value: invitedEmail, Inline: true},
					{Name: "🏋️ Group", Value: group.Name, Inline: true},
					{Name: "🙋 Invited By", Value: inviterName, Inline: true},
				},
				Footer: &DiscordFooter{
					Text: fmt.Sprintf("Group: %s | PowerRanking", group.Name),
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return sendDiscordWebhook(webhookURL, payload)
}

func sendSlackMemberJoined(webhookURL string, group models.Group, memberName string) error {
	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":muscle:",
		Text:      ":muscle: *NEW MEMBER*",
		Attachments: []SlackAttachment{
			{
				Color: "good",
				Title: fmt.Sprintf("%s joined %s", memberName, group.Name),
				Fields: []SlackField{
					{Title: "Member", Value: memberName, Short: true},
					{Title: "Group", Value: group.Name, Short: true},
				},
				Footer:    fmt.Sprintf("Group: %s", group.Name),
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendSlackInviteCreated(webhookURL string, group models.Group, invitedEmail, inviterName string) error {
	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":envelope:",
		Text:      ":envelope: *INVITE SENT*",
		Attachments: []SlackAttachment{
			{
				Color: "#3498DB",
				Title: fmt.Sprintf("%s invited someone to %s", inviterName, group.Name),
				Fields: []SlackField{
					{Title: "Invited", Value: invitedEmail, Short: true},
					{Title: "Group", Value: group.Name, Short: true},
					{Title: "Invited By", Value: inviterName, Short: true},
				},
				Footer:    fmt.Sprintf("Group: %s", group.Name),
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
