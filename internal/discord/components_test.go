package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
)

func TestModalValue(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: modalBasics,
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "city", Value: "  Newark "},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "worktype", Value: "remote"},
			}},
		},
	}
	assert.Equal(t, "Newark", modalValue(data, "city"))
	assert.Equal(t, "remote", modalValue(data, "worktype"))
	assert.Equal(t, "", modalValue(data, "missing"))
}

func TestJobEmbed(t *testing.T) {
	embed := jobEmbed(jobsearch.Result{
		Title:     "Software Engineer",
		Location:  "Newark, NJ",
		SalaryMin: "90000",
		SalaryMax: "110000",
		Link:      "https://example.com/job/1",
		Distance:  3.4,
	}, 1, 5)

	assert.Equal(t, "Software Engineer", embed.Title)
	assert.Equal(t, "Job 2 of 5", embed.Footer.Text)
	require.Len(t, embed.Fields, 3)
	assert.Contains(t, embed.Fields[0].Value, "3.40 miles")
	assert.Contains(t, embed.Fields[1].Value, "$100,000.00")
}

func TestJobEmbedUnknownDistance(t *testing.T) {
	embed := jobEmbed(jobsearch.Result{Title: "Intern", Location: "Somewhere", Distance: jobsearch.NoDistance}, 0, 1)
	assert.Equal(t, "Somewhere", embed.Fields[0].Value)
	assert.Equal(t, "Job 1 of 1", embed.Footer.Text)
}

func TestJobButtonsDisablePagingForSingleResult(t *testing.T) {
	rows := jobButtons(1)
	require.Len(t, rows, 1)
	row := rows[0].(discordgo.ActionsRow)
	prev := row.Components[0].(discordgo.Button)
	next := row.Components[1].(discordgo.Button)
	remove := row.Components[2].(discordgo.Button)
	assert.True(t, prev.Disabled)
	assert.True(t, next.Disabled)
	assert.False(t, remove.Disabled)

	rows = jobButtons(3)
	row = rows[0].(discordgo.ActionsRow)
	assert.False(t, row.Components[0].(discordgo.Button).Disabled)
}

func TestUserIDPrefersGuildMember(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "guild-user"}},
		User:   &discordgo.User{ID: "dm-user"},
	}}
	assert.Equal(t, "guild-user", userID(i))

	i = &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "dm-user"},
	}}
	assert.Equal(t, "dm-user", userID(i))
}
