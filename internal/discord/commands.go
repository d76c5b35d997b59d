package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/JAZoidberg/SageTeamY/internal/alert"
	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/preference"
	"github.com/JAZoidberg/SageTeamY/internal/reminder"
)

func filterChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 6)
	for _, f := range []string{
		reminder.FilterDefault,
		reminder.FilterRelevance,
		reminder.FilterSalary,
		reminder.FilterDate,
		reminder.FilterAlphabetical,
		reminder.FilterDistance,
	} {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: f, Value: f})
	}
	return choices
}

func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "jobform",
			Description: "Manage your job preference form",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "basics",
					Description: "Set your city, work type, employment type and travel distance",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "interests",
					Description: "Set up to five job interests",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "View your stored preferences",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete your stored preferences",
				},
			},
		},
		{
			Name:        "jobs",
			Description: "Get a listing of jobs based on your preferences",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "filter",
					Description: "Sort order for the listings",
					Choices:     filterChoices(),
				},
			},
		},
		{
			Name:        "remind",
			Description: "Create reminders",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a reminder",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "content",
							Description: "What you'd like to be reminded of",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "duration",
							Description: "When you'd like to be reminded, e.g. 30m, 2h, 1d",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "repeat",
							Description: "How often the reminder repeats",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Daily", Value: string(reminder.RepeatDaily)},
								{Name: "Weekly", Value: string(reminder.RepeatWeekly)},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "private",
							Description: "Deliver by direct message instead of the public channel",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "email",
							Description: "Also deliver the reminder to this email address",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "jobs",
					Description: "Create a repeating job alert",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "duration",
							Description: "When the first alert should arrive, e.g. 2h, 1d",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "repeat",
							Description: "How often the alert repeats",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Daily", Value: string(reminder.RepeatDaily)},
								{Name: "Weekly", Value: string(reminder.RepeatWeekly)},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "filter",
							Description: "Sort order applied to the regenerated listings",
							Choices:     filterChoices(),
						},
					},
				},
			},
		},
		{
			Name:        "reminders",
			Description: "View or cancel your reminders",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "List your reminders",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel a reminder by its number",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "number",
							Description: "The reminder number from /reminders view",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

func (b *Bot) handleCommand(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case "jobform":
		b.handleJobForm(i, data)
	case "jobs":
		b.handleJobs(i, data)
	case "remind":
		b.handleRemind(i, data)
	case "reminders":
		b.handleReminders(i, data)
	}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (b *Bot) handleJobForm(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	owner := userID(i)
	switch data.Options[0].Name {
	case "basics":
		b.showBasicsModal(i)
	case "interests":
		b.showInterestsModal(i)
	case "view":
		p, err := b.prefs.Get(owner)
		if err == preference.ErrNotFound {
			b.reply(i, "You haven't filled out the job form yet. Use `/jobform basics` to get started.")
			return
		}
		if err != nil {
			b.log.Error().Err(err).Str("owner", owner).Msg("unable to load preferences")
			b.reply(i, "Something went wrong loading your preferences. Please try again later.")
			return
		}
		b.reply(i, formatPreferences(p))
	case "delete":
		err := b.prefs.Delete(owner)
		if err == preference.ErrNotFound {
			b.reply(i, "You have no stored preferences to delete.")
			return
		}
		if err != nil {
			b.log.Error().Err(err).Str("owner", owner).Msg("unable to delete preferences")
			b.reply(i, "Failed to delete your preferences. Please try again later.")
			return
		}
		b.reply(i, "Your job preferences have been deleted.")
	}
}

func formatPreferences(p preference.JobPreferences) string {
	orUnset := func(s string) string {
		if s == "" {
			return "_not set_"
		}
		return s
	}
	interests := "_none_"
	if len(p.Interests) > 0 {
		interests = strings.Join(p.Interests, ", ")
	}
	return fmt.Sprintf(
		"**Your job preferences**\nCity: %s\nWork type: %s\nEmployment type: %s\nTravel distance: %s\nInterests: %s\nLast updated: <t:%d:f>",
		orUnset(p.City), orUnset(p.WorkType), orUnset(p.EmploymentType), orUnset(p.TravelDistance), interests, p.LastUpdated.Unix())
}

func (b *Bot) handleJobs(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	owner := userID(i)
	filterBy := reminder.FilterDefault
	if opts := optionMap(data.Options); opts["filter"] != nil {
		filterBy = opts["filter"].StringValue()
	}
	if err := b.defer_(i); err != nil {
		b.log.Error().Err(err).Msg("unable to defer jobs interaction")
		return
	}
	listing, err := b.alerts.Build(owner, filterBy)
	if err == alert.ErrNoPreferences {
		b.editReply(i, "You haven't filled out the job form yet. Use `/jobform basics` and `/jobform interests` first.", nil, nil)
		return
	}
	if err != nil {
		b.log.Error().Err(err).Str("owner", owner).Msg("unable to build job listing")
		b.editReply(i, "I couldn't fetch job listings right now. Please try again later.", nil, nil)
		return
	}
	if len(listing.Results) == 0 {
		b.editReply(i, compose.JobMessage(owner, listing.Interests, nil), nil, nil)
		return
	}

	sess := compose.Session{Results: listing.Results, FilterBy: filterBy, City: listing.City}
	if err := b.sessions.Put(owner, sess); err != nil {
		b.log.Error().Err(err).Msg("unable to store pagination session")
	}
	current, _ := sess.Current()
	b.editReply(i,
		compose.Header(owner, filterBy),
		[]*discordgo.MessageEmbed{jobEmbed(current, 0, len(sess.Results))},
		jobButtons(len(sess.Results)),
	)
}

func (b *Bot) handleRemind(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	owner := userID(i)
	sub := data.Options[0]
	opts := optionMap(sub.Options)

	rawDuration := opts["duration"].StringValue()
	duration, err := str2duration.ParseDuration(rawDuration)
	if err != nil || duration <= 0 {
		b.reply(i, fmt.Sprintf("**%s** is not a valid duration. You can use forms like 30m, 2h, 1d or 1w.", rawDuration))
		return
	}
	expires := time.Now().Add(duration)

	switch sub.Name {
	case "create":
		repeat := reminder.RepeatNone
		if opts["repeat"] != nil {
			repeat = reminder.Repeat(opts["repeat"].StringValue())
		}
		mode := reminder.ModePublic
		if opts["private"] != nil && opts["private"].BoolValue() {
			mode = reminder.ModePrivate
		}
		emailAddress := ""
		if opts["email"] != nil {
			emailAddress = strings.TrimSpace(opts["email"].StringValue())
			if !strings.Contains(emailAddress, "@") {
				b.reply(i, fmt.Sprintf("**%s** doesn't look like an email address.", emailAddress))
				return
			}
		}
		_, err := b.rems.Create(reminder.Reminder{
			Owner:             owner,
			Kind:              reminder.KindCustom,
			Content:           opts["content"].StringValue(),
			Expires:           expires,
			Repeat:            repeat,
			Mode:              mode,
			FilterBy:          reminder.FilterDefault,
			EmailNotification: emailAddress != "",
			EmailAddress:      emailAddress,
		})
		if err != nil {
			b.log.Error().Err(err).Str("owner", owner).Msg("unable to create reminder")
			b.reply(i, "Failed to save your reminder. Please try again later.")
			return
		}
		confirmation := fmt.Sprintf("I'll remind you about that at <t:%d:f>.", expires.Unix())
		if emailAddress != "" {
			confirmation += fmt.Sprintf(" A copy will go to **%s**.", emailAddress)
		}
		b.reply(i, confirmation)
	case "jobs":
		filterBy := reminder.FilterDefault
		if opts["filter"] != nil {
			filterBy = opts["filter"].StringValue()
		}
		if !reminder.ValidFilter(filterBy) {
			filterBy = reminder.FilterDefault
		}
		exists, err := b.rems.HasJobAlert(owner, filterBy)
		if err != nil {
			b.log.Error().Err(err).Str("owner", owner).Msg("unable to check job alerts")
			b.reply(i, "Failed to check your job alerts. Please try again later.")
			return
		}
		if exists {
			b.reply(i, fmt.Sprintf("You already have a job alert with filter type **%s**. Cancel it first with `/reminders cancel`.", filterBy))
			return
		}
		flow := compose.JobAlertFlow{
			Repeat:   opts["repeat"].StringValue(),
			FilterBy: filterBy,
			Duration: rawDuration,
		}
		if err := b.sessions.PutFlow(owner, flow); err != nil {
			b.log.Error().Err(err).Msg("unable to store job alert flow")
			b.reply(i, "Something went wrong. Please try again.")
			return
		}
		b.replyWithEmailChoice(i)
	}
}

func (b *Bot) replyWithEmailChoice(i *discordgo.InteractionCreate) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Would you also like your job alerts delivered by email?",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Yes", Style: discordgo.SuccessButton, CustomID: "jobalert:email:yes"},
					discordgo.Button{Label: "No", Style: discordgo.SecondaryButton, CustomID: "jobalert:email:no"},
				}},
			},
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to ask for email notification choice")
	}
}

func (b *Bot) handleReminders(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	owner := userID(i)
	reminders, err := b.rems.ListByOwner(owner)
	if err != nil {
		b.log.Error().Err(err).Str("owner", owner).Msg("unable to list reminders")
		b.reply(i, "Failed to load your reminders. Please try again later.")
		return
	}
	switch data.Options[0].Name {
	case "view":
		if len(reminders) == 0 {
			b.reply(i, "You have no reminders set. Use `/remind create` or `/remind jobs` to add one.")
			return
		}
		var sb strings.Builder
		sb.WriteString("**Your reminders:**\n")
		for n, rem := range reminders {
			label := rem.Content
			if rem.Kind == reminder.KindJobAlert {
				label = fmt.Sprintf("Job alert (filter: %s)", rem.FilterBy)
			}
			fmt.Fprintf(&sb, "%d. %s — due <t:%d:f>", n+1, label, rem.Expires.Unix())
			if rem.Repeat != reminder.RepeatNone {
				fmt.Fprintf(&sb, ", repeats %s", rem.Repeat)
			}
			sb.WriteString("\n")
		}
		b.reply(i, sb.String())
	case "cancel":
		number := int(optionMap(data.Options[0].Options)["number"].IntValue())
		if number < 1 || number > len(reminders) {
			b.reply(i, fmt.Sprintf("**%d** is not a valid reminder number. Use `/reminders view` to see your reminders.", number))
			return
		}
		rem := reminders[number-1]
		if err := b.rems.Delete(rem.ID); err != nil {
			b.log.Error().Err(err).Str("id", rem.ID).Msg("unable to delete reminder")
			b.reply(i, "Failed to cancel the reminder. Please try again later.")
			return
		}
		b.reply(i, fmt.Sprintf("Reminder %d has been cancelled.", number))
	}
}
