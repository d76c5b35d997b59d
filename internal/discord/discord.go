// Package discord is the chat-platform surface: slash commands, modals,
// pagination buttons and the delivery channels the dispatch loop uses.
package discord

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/JAZoidberg/SageTeamY/internal/alert"
	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/config"
	"github.com/JAZoidberg/SageTeamY/internal/preference"
	"github.com/JAZoidberg/SageTeamY/internal/reminder"
)

type Bot struct {
	session  *discordgo.Session
	cfg      config.Config
	prefs    *preference.Repository
	rems     *reminder.Repository
	alerts   *alert.Service
	sessions *compose.Sessions
	log      zerolog.Logger
}

func NewBot(
	cfg config.Config,
	prefs *preference.Repository,
	rems *reminder.Repository,
	alerts *alert.Service,
	sessions *compose.Sessions,
	log zerolog.Logger,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages
	return &Bot{
		session:  session,
		cfg:      cfg,
		prefs:    prefs,
		rems:     rems,
		alerts:   alerts,
		sessions: sessions,
		log:      log,
	}, nil
}

// Open connects the gateway session and registers the slash commands.
func (b *Bot) Open() error {
	b.session.AddHandler(b.handleInteraction)
	if err := b.session.Open(); err != nil {
		return errors.Wrap(err, "unable to open discord gateway session")
	}
	for _, cmd := range commands() {
		if _, err := b.session.ApplicationCommandCreate(b.cfg.DiscordAppID, b.cfg.DiscordGuildID, cmd); err != nil {
			return errors.Wrapf(err, "unable to register command %s", cmd.Name)
		}
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// PublicMessage posts to the shared notification channel.
func (b *Bot) PublicMessage(content string) error {
	_, err := b.session.ChannelMessageSend(b.cfg.NotifyChannelID, content)
	return errors.Wrap(err, "unable to post to notification channel")
}

// DirectMessage delivers to the owner's DM channel. Errors here include the
// user having DMs closed; callers fall back to a public mention.
func (b *Bot) DirectMessage(owner, content string) error {
	ch, err := b.session.UserChannelCreate(owner)
	if err != nil {
		return errors.Wrapf(err, "unable to open dm channel for user %s", owner)
	}
	_, err = b.session.ChannelMessageSend(ch.ID, content)
	return errors.Wrapf(err, "unable to dm user %s", owner)
}

// DirectFile delivers a header message with a file attachment by DM.
func (b *Bot) DirectFile(owner, header, filename string, data []byte) error {
	ch, err := b.session.UserChannelCreate(owner)
	if err != nil {
		return errors.Wrapf(err, "unable to open dm channel for user %s", owner)
	}
	_, err = b.session.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content: header,
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "text/plain",
			Reader:      bytes.NewReader(data),
		}},
	})
	return errors.Wrapf(err, "unable to dm file to user %s", owner)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(i)
	case discordgo.InteractionModalSubmit:
		b.handleModal(i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i)
	}
}

func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (b *Bot) reply(i *discordgo.InteractionCreate, content string) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to respond to interaction")
	}
}

func (b *Bot) defer_(i *discordgo.InteractionCreate) error {
	return b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (b *Bot) editReply(i *discordgo.InteractionCreate, content string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	edit := &discordgo.WebhookEdit{Content: &content}
	if embeds != nil {
		edit.Embeds = &embeds
	}
	if components != nil {
		edit.Components = &components
	}
	if _, err := b.session.InteractionResponseEdit(i.Interaction, edit); err != nil {
		b.log.Error().Err(err).Msg("unable to edit interaction response")
	}
}

func (b *Bot) followUpPDF(i *discordgo.InteractionCreate, content, filename string, data []byte) {
	_, err := b.session.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "application/pdf",
			Reader:      bytes.NewReader(data),
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		b.log.Error().Err(err).Msg("unable to send follow-up attachment")
	}
}

func mention(owner string) string {
	return fmt.Sprintf("<@%s>", owner)
}
