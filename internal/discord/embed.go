package discord

import (
	"fmt"

	"github.com/phoen88/TwitchBAPL-logs/internal/core"
)

// noResolutionText is rendered when the request carries no closure note,
// so the field is never empty.
const noResolutionText = "None provided"

const footerText = "Twitch Unban Request Logs"

// Embed is the subset of the Discord embed object the relay produces.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// BuildEmbed renders one unban request into its notification embed.
// iconURL may be empty, in which case the footer has no image.
//
// Both timestamps in the description derive from the same UTC instant;
// Discord renders <t:unix:f> absolute and <t:unix:R> relative in the
// reader's locale.
func BuildEmbed(rec core.UnbanRequest, iconURL string) Embed {
	unix := rec.CreatedAt.Unix()

	status := rec.Status.Display()
	if rec.ModeratorName != nil {
		status = fmt.Sprintf("%s by %s", status, *rec.ModeratorName)
	}

	resolution := noResolutionText
	if rec.ResolutionText != nil {
		resolution = *rec.ResolutionText
	}

	viewerCard := fmt.Sprintf("https://www.twitch.tv/popout/%s/viewercard/%s", rec.BroadcasterName, rec.UserName)
	requestURL := fmt.Sprintf("https://www.twitch.tv/moderator/unban-request/%s", rec.ID)

	return Embed{
		Title:       "Ban Appeal",
		Description: fmt.Sprintf("Local Date/Time: <t:%d:f> (<t:%d:R>)", unix, unix),
		Color:       rec.Status.Color(),
		Fields: []EmbedField{
			{Name: "In Channel:", Value: rec.BroadcasterName, Inline: true},
			{Name: "Status:", Value: status, Inline: true},
			{Name: "Offending User:", Value: fmt.Sprintf("[%s](%s) (%s)", rec.UserName, viewerCard, rec.UserID), Inline: true},
			{Name: "Appeal Reasoning:", Value: rec.Text},
			{Name: "Appeal Closure Notes:", Value: resolution},
			{Name: "Ban Appeal URL / Request UUID:", Value: fmt.Sprintf("[%s](%s)", rec.ID, requestURL)},
		},
		Footer: &EmbedFooter{Text: footerText, IconURL: iconURL},
	}
}
