package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Embed colors.
const (
	ColorStrike         = 0xeb966d
	ColorMute           = 0x2e4045
	ColorKick           = 0x000080
	ColorBan            = 0xf54029
	ColorStrikeInactive = 0xbd7857
	ColorMuteInactive   = 0x182124
	ColorKickInactive   = 0x000054
	ColorBanInactive    = 0xba2f1e
	ColorUpdate         = 0x0abfd6
	ColorError          = 0xe74c3c
)

var titleCaser = cases.Title(language.English)

// KindTitle returns the capitalized action kind, such as "Strike".
func KindTitle(kind enum.ActionKind) string {
	return titleCaser.String(kind.String())
}

// KindColor returns the embed color for an action.
func KindColor(kind enum.ActionKind, active bool) int {
	switch kind {
	case enum.ActionKindStrike:
		if active {
			return ColorStrike
		}
		return ColorStrikeInactive
	case enum.ActionKindMute:
		if active {
			return ColorMute
		}
		return ColorMuteInactive
	case enum.ActionKindKick:
		// Kicks are never active, so they always use the brighter color
		return ColorKick
	case enum.ActionKindBan:
		if active {
			return ColorBan
		}
		return ColorBanInactive
	}
	return ColorUpdate
}

// pastTense returns how an action reads in a sentence, as in "has been struck".
func pastTense(kind enum.ActionKind) string {
	switch kind {
	case enum.ActionKindStrike:
		return "issued a strike"
	case enum.ActionKindMute:
		return "muted"
	case enum.ActionKindKick:
		return "kicked"
	case enum.ActionKindBan:
		return "banned"
	}
	return "actioned"
}

// FormatExpiry renders an expiry as a Discord timestamp.
func FormatExpiry(expiry *time.Time) string {
	if expiry == nil {
		return "Never"
	}
	return fmt.Sprintf("<t:%d:F> (<t:%d:R>)", expiry.Unix(), expiry.Unix())
}

// FormatReason renders a reason, falling back for empty ones.
func FormatReason(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return "No reason provided"
	}
	return reason
}

func actionFields(action *types.Action) []discord.EmbedField {
	inline := true
	fields := []discord.EmbedField{
		{Name: "Reason", Value: FormatReason(action.Reason), Inline: &inline},
		{Name: "Moderator", Value: fmt.Sprintf("<@%d>", action.ModeratorID), Inline: &inline},
	}
	if action.Kind != enum.ActionKindKick {
		fields = append(fields, discord.EmbedField{Name: "Expires", Value: FormatExpiry(action.Expiry), Inline: &inline})
	}
	return fields
}

// NoticeEmbed is the direct message sent to the target of an action.
func NoticeEmbed(action *types.Action, guildName string) discord.Embed {
	var title string
	switch action.Kind {
	case enum.ActionKindStrike:
		title = "Strike received"
	case enum.ActionKindMute:
		title = "Muted!"
	case enum.ActionKindKick:
		title = "Kicked!"
	case enum.ActionKindBan:
		title = "Banned!"
	}

	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescriptionf("You have been %s in **%s**", pastTense(action.Kind), guildName).
		SetFields(actionFields(action)...).
		SetFooterText("UUID: " + action.ID).
		SetColor(KindColor(action.Kind, true)).
		Build()
}

// LogEmbed is the audit log entry for a newly issued action.
func LogEmbed(action *types.Action) discord.Embed {
	title := "User " + pastTense(action.Kind)
	if action.Kind == enum.ActionKindStrike {
		title = "Strike issued"
	}

	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescriptionf("<@%d> has been %s", action.UserID, pastTense(action.Kind)).
		SetFields(actionFields(action)...).
		SetFooterTextf("User %d %s | UUID: %s", action.UserID, action.Kind, action.ID).
		SetColor(KindColor(action.Kind, true)).
		Build()
}

// UpdateEmbed is the audit log entry for a correction to an existing action.
func UpdateEmbed(action *types.Action, update types.ActionUpdate) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetFooterTextf("%s | UUID: %s", KindTitle(action.Kind), action.ID).
		SetColor(ColorUpdate)

	switch update {
	case types.ActionUpdateReason:
		builder.SetTitle("Reason updated").
			SetDescriptionf("The reason of action `%s` is now: %s", action.ID, FormatReason(action.Reason))
	case types.ActionUpdateExpiry:
		builder.SetTitle("Duration updated").
			SetDescriptionf("Action `%s` now expires: %s", action.ID, FormatExpiry(action.Expiry))
	case types.ActionUpdateExpired:
		builder.SetTitle("Action expired").
			SetDescriptionf("Action `%s` against <@%d> was manually expired", action.ID, action.UserID).
			SetColor(KindColor(action.Kind, false))
	case types.ActionUpdateRemoved:
		builder.SetTitle("Action removed").
			SetDescriptionf("Action `%s` against <@%d> was removed", action.ID, action.UserID).
			SetColor(KindColor(action.Kind, false))
	}

	return builder.Build()
}

// HistoryEmbed lists a user's actions.
func HistoryEmbed(userID uint64, actions []*types.Action, includeInactive bool) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle("Moderation history").
		SetColor(ColorUpdate)

	if len(actions) == 0 {
		status := "active "
		if includeInactive {
			status = ""
		}
		return builder.SetDescriptionf("<@%d> has no %sactions", userID, status).Build()
	}

	builder.SetDescriptionf("Showing %d actions for <@%d>", len(actions), userID)
	for _, action := range actions {
		state := "Active"
		if !action.Active {
			state = "Inactive"
		}

		builder.AddField(
			fmt.Sprintf("%s | %s", KindTitle(action.Kind), state),
			fmt.Sprintf("**Reason:** %s\n**Moderator:** <@%d>\n**Issued:** <t:%d:R>\n**Expires:** %s\n`%s`",
				FormatReason(action.Reason), action.ModeratorID, action.CreatedAt.Unix(),
				FormatExpiry(action.Expiry), action.ID),
			false,
		)
	}

	return builder.Build()
}

// ResultEmbed is the reply shown to the moderator who issued an action.
func ResultEmbed(action *types.Action, notified bool, escalation string) discord.Embed {
	description := fmt.Sprintf("<@%d> has been %s", action.UserID, pastTense(action.Kind))
	if notified {
		description += " and was notified"
	} else {
		description += " but could not be notified"
	}
	if escalation != "" {
		description += "\n\n" + escalation
	}

	return discord.NewEmbedBuilder().
		SetTitle(KindTitle(action.Kind)+" issued").
		SetDescription(description).
		SetFields(actionFields(action)...).
		SetFooterText("UUID: " + action.ID).
		SetColor(KindColor(action.Kind, true)).
		Build()
}

// LiftedEmbed confirms an unban or unmute and lists the actions it deactivated.
func LiftedEmbed(kind enum.ActionKind, userID uint64, deactivated []string) discord.Embed {
	verb := "unbanned"
	if kind == enum.ActionKindMute {
		verb = "unmuted"
	}

	builder := discord.NewEmbedBuilder().
		SetTitle("User "+verb).
		SetColor(KindColor(kind, false))

	if len(deactivated) == 0 {
		return builder.SetDescriptionf("<@%d> has been %s. No active %s was on record", userID, verb, kind).Build()
	}

	ids := make([]string, len(deactivated))
	for i, id := range deactivated {
		ids[i] = "`" + id + "`"
	}
	return builder.
		SetDescriptionf("<@%d> has been %s", userID, verb).
		AddField("Deactivated", strings.Join(ids, "\n"), false).
		Build()
}

// ErrorEmbed renders a failure with guidance for the moderator.
func ErrorEmbed(title, hint string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(hint).
		SetColor(ColorError).
		Build()
}
