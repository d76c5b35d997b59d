package dispatcher

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JAZoidberg/SageTeamY/internal/alert"
	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
	"github.com/JAZoidberg/SageTeamY/internal/reminder"
)

type fakeStore struct {
	mu          sync.Mutex
	due         []reminder.Reminder
	rescheduled map[string]time.Time
	deleted     []string
	released    []string
	staleFreed  int64
}

func newFakeStore(due ...reminder.Reminder) *fakeStore {
	return &fakeStore{due: due, rescheduled: make(map[string]time.Time)}
}

func (f *fakeStore) ClaimDue(now time.Time, limit int) ([]reminder.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	due := f.due
	f.due = nil
	return due, nil
}

func (f *fakeStore) Reschedule(id string, next time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rescheduled[id] = next
	return nil
}

func (f *fakeStore) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Release(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, id)
	return nil
}

func (f *fakeStore) ReleaseStale(olderThan time.Time) (int64, error) {
	return f.staleFreed, nil
}

type fakeDeliverer struct {
	mu       sync.Mutex
	public   []string
	dms      map[string][]string
	files    map[string][]string
	dmErr    error
	filesErr error
}

func newFakeDeliverer() *fakeDeliverer {
	return &fakeDeliverer{dms: make(map[string][]string), files: make(map[string][]string)}
}

func (f *fakeDeliverer) PublicMessage(content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.public = append(f.public, content)
	return nil
}

func (f *fakeDeliverer) DirectMessage(owner, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dmErr != nil {
		return f.dmErr
	}
	f.dms[owner] = append(f.dms[owner], content)
	return nil
}

func (f *fakeDeliverer) DirectFile(owner, header, filename string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.filesErr != nil {
		return f.filesErr
	}
	f.files[owner] = append(f.files[owner], string(data))
	return nil
}

type fakeAlerts struct {
	listing  alert.Listing
	buildErr error
	pdfErr   error
	pdfCalls int
}

func (f *fakeAlerts) Build(owner, filterBy string) (alert.Listing, error) {
	if f.buildErr != nil {
		return alert.Listing{}, f.buildErr
	}
	return f.listing, nil
}

func (f *fakeAlerts) BuildPDF(l alert.Listing) ([]byte, error) {
	f.pdfCalls++
	if f.pdfErr != nil {
		return nil, f.pdfErr
	}
	return []byte("%PDF"), nil
}

type fakeEmailer struct {
	mu        sync.Mutex
	sent      []string
	sentTexts []string
	err       error
}

func (f *fakeEmailer) SendReminderText(to, subject, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sentTexts = append(f.sentTexts, to)
	return nil
}

func (f *fakeEmailer) SendJobAlert(to, subject, text string, pdf []byte, fileName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func newDispatcher(store Store, deliver Deliverer, alerts Alerts, email Emailer) *Dispatcher {
	return New(store, deliver, alerts, email, time.Second, 5*time.Minute, zerolog.Nop())
}

func shortListing() alert.Listing {
	return alert.Listing{
		Message: "## Hey <@42>!\nshort listing\n---\ndisclaimer",
		Results: []jobsearch.Result{{Title: "Engineer"}},
	}
}

func TestTickDeliversPublicCustomReminder(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindCustom,
		Content: "stand up", Mode: reminder.ModePublic,
	})
	deliver := newFakeDeliverer()
	d := newDispatcher(store, deliver, &fakeAlerts{}, nil)

	d.Tick()

	require.Len(t, deliver.public, 1)
	assert.Equal(t, "<@42>, here's the reminder you asked for: **stand up**", deliver.public[0])
	assert.Equal(t, []string{"r1"}, store.deleted)
	assert.Empty(t, store.rescheduled)
}

func TestTickDeliversPrivateCustomReminder(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindCustom,
		Content: "drink water", Mode: reminder.ModePrivate,
	})
	deliver := newFakeDeliverer()
	d := newDispatcher(store, deliver, &fakeAlerts{}, nil)

	d.Tick()

	require.Len(t, deliver.dms["42"], 1)
	assert.Contains(t, deliver.dms["42"][0], "**drink water**")
	assert.Empty(t, deliver.public)
}

func TestPrivateDMFailureFallsBackToPublic(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindCustom,
		Content: "therapy appointment at 3pm", Mode: reminder.ModePrivate,
	})
	deliver := newFakeDeliverer()
	deliver.dmErr = errors.New("cannot send messages to this user")
	d := newDispatcher(store, deliver, &fakeAlerts{}, nil)

	d.Tick()

	require.Len(t, deliver.public, 1)
	assert.Contains(t, deliver.public[0], "<@42>")
	assert.Contains(t, deliver.public[0], "DMs closed")
	assert.NotContains(t, deliver.public[0], "therapy appointment at 3pm",
		"private content never reaches the public channel")
	assert.Equal(t, []string{"r1"}, store.deleted)
}

func TestRepeatingReminderIsRescheduled(t *testing.T) {
	expires := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindCustom,
		Content: "stand up", Mode: reminder.ModePublic,
		Repeat: reminder.RepeatDaily, Expires: expires,
	})
	deliver := newFakeDeliverer()
	d := newDispatcher(store, deliver, &fakeAlerts{}, nil)

	d.Tick()

	next, ok := store.rescheduled["r1"]
	require.True(t, ok)
	assert.Equal(t, expires.AddDate(0, 0, 1), next)
	assert.Empty(t, store.deleted)
}

func TestJobAlertDeliveredByDM(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindJobAlert,
		FilterBy: "salary", Repeat: reminder.RepeatWeekly,
	})
	deliver := newFakeDeliverer()
	alerts := &fakeAlerts{listing: shortListing()}
	d := newDispatcher(store, deliver, alerts, nil)

	d.Tick()

	require.Len(t, deliver.dms["42"], 1)
	assert.Contains(t, deliver.dms["42"][0], "short listing")
	assert.Empty(t, deliver.files)
}

func TestOversizedJobAlertBecomesFileAttachment(t *testing.T) {
	listing := alert.Listing{
		Message: "## Hey <@42>!\n**" + strings.Repeat("x", compose.MessageLimit) + "**\n---\ndisclaimer",
	}
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindJobAlert, FilterBy: "default",
	})
	deliver := newFakeDeliverer()
	d := newDispatcher(store, deliver, &fakeAlerts{listing: listing}, nil)

	d.Tick()

	require.Len(t, deliver.files["42"], 1)
	assert.NotContains(t, deliver.files["42"][0], "**", "attachment body is markdown-stripped")
	assert.NotContains(t, deliver.files["42"][0], "disclaimer")
	assert.Empty(t, deliver.dms)
}

func TestJobAlertBuildFailureReleasesClaim(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindJobAlert, FilterBy: "default",
	})
	deliver := newFakeDeliverer()
	d := newDispatcher(store, deliver, &fakeAlerts{buildErr: errors.New("upstream down")}, nil)

	d.Tick()

	assert.Equal(t, []string{"r1"}, store.released)
	assert.Empty(t, store.deleted)
	assert.Empty(t, store.rescheduled)
}

func TestJobAlertWithoutPreferencesNudgesOwner(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindJobAlert,
		FilterBy: "default", Repeat: reminder.RepeatDaily,
		Expires: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
	})
	deliver := newFakeDeliverer()
	d := newDispatcher(store, deliver, &fakeAlerts{buildErr: alert.ErrNoPreferences}, nil)

	d.Tick()

	require.Len(t, deliver.dms["42"], 1)
	assert.Contains(t, deliver.dms["42"][0], "/jobform basics")
	_, rescheduled := store.rescheduled["r1"]
	assert.True(t, rescheduled, "the nudge counts as a delivery")
}

func TestCustomReminderEmailOptIn(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindCustom,
		Content: "stand up", Mode: reminder.ModePublic,
		EmailNotification: true, EmailAddress: "me@example.com",
	})
	deliver := newFakeDeliverer()
	emailer := &fakeEmailer{}
	d := newDispatcher(store, deliver, &fakeAlerts{}, emailer)

	d.Tick()

	require.Len(t, deliver.public, 1)
	assert.Equal(t, []string{"me@example.com"}, emailer.sentTexts)
	assert.Empty(t, emailer.sent, "custom reminders use the plain-text send")
}

func TestCustomReminderEmailFailureNeverFailsDispatch(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindCustom,
		Content: "stand up", Mode: reminder.ModePublic,
		EmailNotification: true, EmailAddress: "me@example.com",
	})
	deliver := newFakeDeliverer()
	d := newDispatcher(store, deliver, &fakeAlerts{}, &fakeEmailer{err: errors.New("smtp down")})

	d.Tick()

	assert.Equal(t, []string{"r1"}, store.deleted)
	assert.Empty(t, store.released)
}

func TestEmailSentWhenRequested(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindJobAlert,
		FilterBy: "default", EmailNotification: true, EmailAddress: "me@example.com",
	})
	deliver := newFakeDeliverer()
	emailer := &fakeEmailer{}
	alerts := &fakeAlerts{listing: shortListing()}
	d := newDispatcher(store, deliver, alerts, emailer)

	d.Tick()

	assert.Equal(t, []string{"me@example.com"}, emailer.sent)
	assert.Equal(t, 1, alerts.pdfCalls)
}

func TestEmailFailureNeverFailsDispatch(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindJobAlert,
		FilterBy: "default", EmailNotification: true, EmailAddress: "me@example.com",
	})
	deliver := newFakeDeliverer()
	emailer := &fakeEmailer{err: errors.New("smtp down")}
	d := newDispatcher(store, deliver, &fakeAlerts{listing: shortListing()}, emailer)

	d.Tick()

	require.Len(t, deliver.dms["42"], 1)
	assert.Equal(t, []string{"r1"}, store.deleted)
	assert.Empty(t, store.released)
}

func TestPDFFailureStillEmails(t *testing.T) {
	store := newFakeStore(reminder.Reminder{
		ID: "r1", Owner: "42", Kind: reminder.KindJobAlert,
		FilterBy: "default", EmailNotification: true, EmailAddress: "me@example.com",
	})
	deliver := newFakeDeliverer()
	emailer := &fakeEmailer{}
	d := newDispatcher(store, deliver, &fakeAlerts{listing: shortListing(), pdfErr: errors.New("render failed")}, emailer)

	d.Tick()

	assert.Equal(t, []string{"me@example.com"}, emailer.sent)
}
