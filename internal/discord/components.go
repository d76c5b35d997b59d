package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
	"github.com/JAZoidberg/SageTeamY/internal/preference"
	"github.com/JAZoidberg/SageTeamY/internal/reminder"
)

const (
	modalBasics     = "jobform:basics"
	modalInterests  = "jobform:interests"
	modalAlertEmail = "jobalert:email"
)

func (b *Bot) showBasicsModal(i *discordgo.InteractionCreate) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalBasics,
			Title:    "Job Form: The Basics",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "city",
						Label:       "What city do you want to work in?",
						Style:       discordgo.TextInputShort,
						Placeholder: "newark",
						MaxLength:   100,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "worktype",
						Label:       "Remote, hybrid or onsite?",
						Style:       discordgo.TextInputShort,
						Placeholder: "remote / hybrid / onsite",
						MaxLength:   20,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "employmenttype",
						Label:       "Full-time, part-time or internship?",
						Style:       discordgo.TextInputShort,
						Placeholder: "full-time / part-time / internship",
						MaxLength:   20,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "traveldistance",
						Label:       "How many miles can you travel?",
						Style:       discordgo.TextInputShort,
						Placeholder: "10",
						MaxLength:   5,
					},
				}},
			},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to show basics modal")
	}
}

func (b *Bot) showInterestsModal(i *discordgo.InteractionCreate) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalInterests,
			Title:    "Job Form: Interests",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "interests",
						Label:       fmt.Sprintf("Up to %d interests, comma separated", preference.MaxInterests),
						Style:       discordgo.TextInputParagraph,
						Placeholder: "software engineering, data science",
						MaxLength:   500,
					},
				}},
			},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to show interests modal")
	}
}

func (b *Bot) handleModal(i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	switch data.CustomID {
	case modalBasics:
		b.saveBasics(i, data)
	case modalInterests:
		b.saveInterests(i, data)
	case modalAlertEmail:
		b.finishJobAlert(i, modalValue(data, "email"))
	}
}

// modalValue digs a text input value out of the submitted component tree.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actions, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actions.Components {
			input, ok := c.(*discordgo.TextInput)
			if ok && input.CustomID == customID {
				return strings.TrimSpace(input.Value)
			}
		}
	}
	return ""
}

func (b *Bot) saveBasics(i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) {
	owner := userID(i)
	p := preference.JobPreferences{
		UserID:         owner,
		City:           modalValue(data, "city"),
		WorkType:       strings.ToLower(modalValue(data, "worktype")),
		EmploymentType: strings.ToLower(modalValue(data, "employmenttype")),
		TravelDistance: modalValue(data, "traveldistance"),
	}
	if errs := preference.Validate(p); len(errs) > 0 {
		lines := make([]string, 0, len(errs))
		for _, e := range errs {
			lines = append(lines, "- "+e.Error())
		}
		b.reply(i, "Your form has some problems:\n"+strings.Join(lines, "\n"))
		return
	}
	if err := b.prefs.Save(p); err != nil {
		b.log.Error().Err(err).Str("owner", owner).Msg("unable to save preferences")
		b.reply(i, "Failed to save your preferences. Please try again later.")
		return
	}
	b.reply(i, "Your job form basics have been saved. Use `/jobform interests` to add interests, or `/jobs` to see listings.")
}

func (b *Bot) saveInterests(i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) {
	owner := userID(i)
	var interests []string
	for _, raw := range strings.Split(modalValue(data, "interests"), ",") {
		if s := strings.TrimSpace(raw); s != "" {
			interests = append(interests, s)
		}
	}
	if len(interests) > preference.MaxInterests {
		b.reply(i, fmt.Sprintf("You listed %d interests but only %d are allowed. Please trim the list.", len(interests), preference.MaxInterests))
		return
	}
	if len(interests) == 0 {
		b.reply(i, "You didn't list any interests, so nothing was changed.")
		return
	}
	if err := b.prefs.Save(preference.JobPreferences{UserID: owner, Interests: interests}); err != nil {
		b.log.Error().Err(err).Str("owner", owner).Msg("unable to save interests")
		b.reply(i, "Failed to save your interests. Please try again later.")
		return
	}
	b.reply(i, fmt.Sprintf("Saved %d interest(s): %s", len(interests), strings.Join(interests, ", ")))
}

func (b *Bot) handleComponent(i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch customID {
	case "jobs:previous", "jobs:next", "jobs:remove":
		b.pageJobs(i, customID)
	case "jobs:download":
		b.downloadJobs(i)
	case "jobalert:email:yes":
		b.showAlertEmailModal(i)
	case "jobalert:email:no":
		b.finishJobAlert(i, "")
	}
}

func (b *Bot) pageJobs(i *discordgo.InteractionCreate, action string) {
	owner := userID(i)
	sess, ok := b.sessions.Get(owner)
	if !ok {
		b.updateMessage(i, "This job listing has expired. Run `/jobs` again for fresh results.", nil, nil)
		return
	}
	switch action {
	case "jobs:previous":
		sess.Previous()
	case "jobs:next":
		sess.Next()
	case "jobs:remove":
		sess.Remove()
	}
	if len(sess.Results) == 0 {
		b.sessions.Delete(owner)
		b.updateMessage(i, "No listings left. Run `/jobs` again for fresh results.", nil, nil)
		return
	}
	if err := b.sessions.Put(owner, sess); err != nil {
		b.log.Error().Err(err).Msg("unable to store pagination session")
	}
	current, _ := sess.Current()
	b.updateMessage(i,
		compose.Header(owner, sess.FilterBy),
		[]*discordgo.MessageEmbed{jobEmbed(current, sess.Index, len(sess.Results))},
		jobButtons(len(sess.Results)),
	)
}

func (b *Bot) downloadJobs(i *discordgo.InteractionCreate) {
	owner := userID(i)
	sess, ok := b.sessions.Get(owner)
	if !ok || len(sess.Results) == 0 {
		b.reply(i, "This job listing has expired. Run `/jobs` again for fresh results.")
		return
	}
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to defer download interaction")
		return
	}
	pdf, err := b.alerts.BuildPDF(b.alerts.ListingFromResults(owner, sess.Results, sess.City, sess.FilterBy))
	if err != nil {
		b.log.Error().Err(err).Str("owner", owner).Msg("unable to render job listing pdf")
		b.editReply(i, "Failed to generate the PDF. Please try again later.", nil, nil)
		return
	}
	b.followUpPDF(i, "Here's your job listing PDF.", "jobs.pdf", pdf)
}

func (b *Bot) showAlertEmailModal(i *discordgo.InteractionCreate) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalAlertEmail,
			Title:    "Job Alert Email",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "email",
						Label:       "Where should we send the alerts?",
						Style:       discordgo.TextInputShort,
						Placeholder: "you@example.com",
						Required:    true,
						MaxLength:   254,
					},
				}},
			},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to show alert email modal")
	}
}

// finishJobAlert completes the two-step job alert flow once the email choice
// is known. An empty address means discord-only delivery.
func (b *Bot) finishJobAlert(i *discordgo.InteractionCreate, emailAddress string) {
	owner := userID(i)
	flow, ok := b.sessions.GetFlow(owner)
	if !ok {
		b.reply(i, "This job alert setup has expired. Run `/remind jobs` again.")
		return
	}
	b.sessions.DeleteFlow(owner)

	duration, err := str2duration.ParseDuration(flow.Duration)
	if err != nil || duration <= 0 {
		b.reply(i, fmt.Sprintf("**%s** is not a valid duration. Run `/remind jobs` again.", flow.Duration))
		return
	}
	if emailAddress != "" && !strings.Contains(emailAddress, "@") {
		b.reply(i, fmt.Sprintf("**%s** doesn't look like an email address. Run `/remind jobs` again.", emailAddress))
		return
	}
	expires := time.Now().Add(duration)
	_, err = b.rems.Create(reminder.Reminder{
		Owner:             owner,
		Kind:              reminder.KindJobAlert,
		Expires:           expires,
		Repeat:            reminder.Repeat(flow.Repeat),
		Mode:              reminder.ModePrivate,
		FilterBy:          flow.FilterBy,
		EmailNotification: emailAddress != "",
		EmailAddress:      emailAddress,
	})
	if err == reminder.ErrDuplicateJobAlert {
		b.reply(i, fmt.Sprintf("You already have a job alert with filter type **%s**.", flow.FilterBy))
		return
	}
	if err != nil {
		b.log.Error().Err(err).Str("owner", owner).Msg("unable to create job alert")
		b.reply(i, "Failed to save your job alert. Please try again later.")
		return
	}
	confirmation := fmt.Sprintf("Your %s job alert is set. The first one arrives at <t:%d:f>.", flow.Repeat, expires.Unix())
	if emailAddress != "" {
		confirmation += fmt.Sprintf(" Alerts will also go to **%s**.", emailAddress)
	}
	b.reply(i, confirmation)
}

// updateMessage edits the message the component lives on, in place.
func (b *Bot) updateMessage(i *discordgo.InteractionCreate, content string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     embeds,
			Components: components,
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to update component message")
	}
}

func jobEmbed(job jobsearch.Result, index, total int) *discordgo.MessageEmbed {
	location := job.Location
	if job.Distance >= 0 {
		location = fmt.Sprintf("%s (%s)", job.Location, compose.FormatDistance(job.Distance))
	}
	return &discordgo.MessageEmbed{
		Title: job.Title,
		Color: 0x0099ff,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Location", Value: location},
			{Name: "Salary", Value: compose.FormatSalary(job)},
			{Name: "Apply Here", Value: job.Link},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Job %d of %d", index+1, total),
		},
	}
}

func jobButtons(total int) []discordgo.MessageComponent {
	single := total <= 1
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Previous", Style: discordgo.PrimaryButton, CustomID: "jobs:previous", Disabled: single},
			discordgo.Button{Label: "Next", Style: discordgo.PrimaryButton, CustomID: "jobs:next", Disabled: single},
			discordgo.Button{Label: "Remove", Style: discordgo.DangerButton, CustomID: "jobs:remove"},
			discordgo.Button{Label: "Download PDF", Style: discordgo.SecondaryButton, CustomID: "jobs:download"},
		}},
	}
}
