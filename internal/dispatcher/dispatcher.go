// Package dispatcher runs the periodic reminder sweep: claim what's due,
// deliver it, then reschedule or delete.
package dispatcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/raven-go"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/JAZoidberg/SageTeamY/internal/alert"
	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/reminder"
)

// claimBatch caps how many reminders one tick takes on.
const claimBatch = 50

// Store is the reminder persistence surface the sweep needs.
type Store interface {
	ClaimDue(now time.Time, limit int) ([]reminder.Reminder, error)
	Reschedule(id string, next time.Time) error
	Delete(id string) error
	Release(id string) error
	ReleaseStale(olderThan time.Time) (int64, error)
}

// Deliverer posts to the chat platform.
type Deliverer interface {
	PublicMessage(content string) error
	DirectMessage(owner, content string) error
	DirectFile(owner, header, filename string, data []byte) error
}

// Alerts assembles job listing content for job-alert reminders.
type Alerts interface {
	Build(owner, filterBy string) (alert.Listing, error)
	BuildPDF(l alert.Listing) ([]byte, error)
}

// Emailer is the optional email channel. Email failures never fail a
// dispatch.
type Emailer interface {
	SendReminderText(to, subject, text string) error
	SendJobAlert(to, subject, text string, pdf []byte, fileName string) error
}

type Dispatcher struct {
	store        Store
	deliver      Deliverer
	alerts       Alerts
	email        Emailer
	interval     time.Duration
	claimTimeout time.Duration
	cron         *cron.Cron
	log          zerolog.Logger
}

func New(store Store, deliver Deliverer, alerts Alerts, email Emailer, interval, claimTimeout time.Duration, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:        store,
		deliver:      deliver,
		alerts:       alerts,
		email:        email,
		interval:     interval,
		claimTimeout: claimTimeout,
		log:          log,
	}
}

// Start schedules the sweep and returns immediately.
func (d *Dispatcher) Start() error {
	d.cron = cron.New()
	_, err := d.cron.AddFunc(fmt.Sprintf("@every %s", d.interval), d.Tick)
	if err != nil {
		return err
	}
	d.cron.Start()
	return nil
}

func (d *Dispatcher) Stop() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}
}

// Tick runs one sweep: recover stale claims, claim what's due, dispatch each
// claimed reminder concurrently and wait for the batch to finish.
func (d *Dispatcher) Tick() {
	now := time.Now()
	if released, err := d.store.ReleaseStale(now.Add(-d.claimTimeout)); err != nil {
		d.log.Error().Err(err).Msg("unable to release stale reminders")
	} else if released > 0 {
		d.log.Warn().Int64("count", released).Msg("re-queued stale reminders")
	}

	due, err := d.store.ClaimDue(now, claimBatch)
	if err != nil {
		d.log.Error().Err(err).Msg("unable to claim due reminders")
		return
	}
	if len(due) == 0 {
		return
	}
	d.log.Debug().Int("count", len(due)).Msg("dispatching due reminders")

	var wg sync.WaitGroup
	for _, rem := range due {
		wg.Add(1)
		go func(rem reminder.Reminder) {
			defer wg.Done()
			d.dispatch(rem)
		}(rem)
	}
	wg.Wait()
}

// dispatch delivers one claimed reminder and settles its record: repeating
// reminders are re-queued at the next expiry, one-shots are deleted. A failed
// delivery releases the claim so a later tick retries.
func (d *Dispatcher) dispatch(rem reminder.Reminder) {
	var err error
	switch rem.Kind {
	case reminder.KindJobAlert:
		err = d.dispatchJobAlert(rem)
	default:
		err = d.dispatchCustom(rem)
	}
	if err != nil {
		d.log.Error().Err(err).Str("id", rem.ID).Str("owner", rem.Owner).Msg("dispatch failed")
		raven.CaptureError(err, map[string]string{"ctx": "dispatch", "reminder": rem.ID})
		if relErr := d.store.Release(rem.ID); relErr != nil {
			d.log.Error().Err(relErr).Str("id", rem.ID).Msg("unable to release reminder")
		}
		return
	}

	if next, repeats := rem.NextExpiry(); repeats {
		if err := d.store.Reschedule(rem.ID, next); err != nil {
			d.log.Error().Err(err).Str("id", rem.ID).Msg("unable to reschedule reminder")
		}
		return
	}
	if err := d.store.Delete(rem.ID); err != nil {
		d.log.Error().Err(err).Str("id", rem.ID).Msg("unable to delete dispatched reminder")
	}
}

func (d *Dispatcher) dispatchCustom(rem reminder.Reminder) error {
	var err error
	if rem.Mode == reminder.ModePrivate {
		err = d.deliver.DirectMessage(rem.Owner, fmt.Sprintf("Here's the reminder you asked for: **%s**", rem.Content))
		if err != nil {
			d.log.Warn().Err(err).Str("owner", rem.Owner).Msg("dm failed, falling back to public channel")
			// private content never reaches the public channel; the
			// fallback only reports the failed delivery
			err = d.deliver.PublicMessage(fmt.Sprintf("<@%s>, I tried to send you a DM about your private reminder but it looks like you have DMs closed. Please enable DMs if you'd like to get private reminders.", rem.Owner))
		}
	} else {
		err = d.deliver.PublicMessage(fmt.Sprintf("<@%s>, here's the reminder you asked for: **%s**", rem.Owner, rem.Content))
	}
	if err != nil {
		return err
	}
	if rem.EmailNotification && rem.EmailAddress != "" && d.email != nil {
		if mailErr := d.email.SendReminderText(rem.EmailAddress, "Your reminder", rem.Content); mailErr != nil {
			d.log.Warn().Err(mailErr).Str("owner", rem.Owner).Msg("email delivery failed")
		}
	}
	return nil
}

func (d *Dispatcher) dispatchJobAlert(rem reminder.Reminder) error {
	listing, err := d.alerts.Build(rem.Owner, rem.FilterBy)
	if err == alert.ErrNoPreferences {
		// The alert outlived the preferences. Tell the owner instead of
		// retrying forever.
		return d.deliver.DirectMessage(rem.Owner,
			"You have a job alert set up, but no job preferences on file. Use `/jobform basics` to fill them out.")
	}
	if err != nil {
		return err
	}

	if len(listing.Message) > compose.MessageLimit {
		err = d.deliver.DirectFile(rem.Owner,
			compose.Header(rem.Owner, rem.FilterBy),
			"jobs.txt",
			[]byte(compose.AttachmentBody(listing.Message)))
	} else {
		err = d.deliver.DirectMessage(rem.Owner, listing.Message)
	}
	if err != nil {
		d.log.Warn().Err(err).Str("owner", rem.Owner).Msg("dm failed, falling back to public channel")
		err = d.deliver.PublicMessage(fmt.Sprintf("<@%s>, I couldn't DM you your job alert. Check that your DMs are open.", rem.Owner))
	}
	if err != nil {
		return err
	}

	if rem.EmailNotification && rem.EmailAddress != "" && d.email != nil {
		d.sendEmail(rem, listing)
	}
	return nil
}

// sendEmail is best-effort: a broken email channel never blocks or retries
// the chat delivery.
func (d *Dispatcher) sendEmail(rem reminder.Reminder, listing alert.Listing) {
	pdf, err := d.alerts.BuildPDF(listing)
	if err != nil {
		d.log.Warn().Err(err).Str("owner", rem.Owner).Msg("pdf export failed, emailing without attachment")
		pdf = nil
	}
	err = d.email.SendJobAlert(
		rem.EmailAddress,
		"Your job/internship recommendations",
		compose.AttachmentBody(listing.Message),
		pdf,
		"jobs.pdf")
	if err != nil {
		d.log.Warn().Err(err).Str("owner", rem.Owner).Msg("email delivery failed")
	}
}
