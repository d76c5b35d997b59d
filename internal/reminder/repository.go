package reminder

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

// ErrDuplicateJobAlert is returned when the owner already has a job alert
// with the same filter. One job alert per owner per filter.
var ErrDuplicateJobAlert = errors.New("job alert with this filter already exists")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) Create(rem Reminder) (Reminder, error) {
	if rem.ID == "" {
		id, err := ksuid.NewRandom()
		if err != nil {
			return rem, err
		}
		rem.ID = id.String()
	}
	_, err := r.db.Exec(
		`INSERT INTO reminder (id, owner, kind, content, expires, repeat, mode, filter_by, email_notification, email_address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'scheduled')`,
		rem.ID,
		rem.Owner,
		string(rem.Kind),
		rem.Content,
		rem.Expires.UTC(),
		string(rem.Repeat),
		string(rem.Mode),
		rem.FilterBy,
		rem.EmailNotification,
		rem.EmailAddress,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return rem, ErrDuplicateJobAlert
	}
	if err != nil {
		return rem, errors.Wrapf(err, "unable to create reminder for owner %s", rem.Owner)
	}
	return rem, nil
}

// ClaimDue atomically flips due reminders from scheduled to dispatching and
// returns them. Overlapping ticks cannot claim the same reminder twice.
func (r *Repository) ClaimDue(now time.Time, limit int) ([]Reminder, error) {
	res := make([]Reminder, 0)
	rows, err := r.db.Query(
		`UPDATE reminder SET status = 'dispatching', claimed_at = $2
		WHERE id IN (
			SELECT id FROM reminder
			WHERE expires <= $1 AND status = 'scheduled'
			ORDER BY expires ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, owner, kind, content, expires, repeat, mode, filter_by, email_notification, email_address`,
		now.UTC(), now.UTC(), limit)
	if err == sql.ErrNoRows {
		return res, nil
	}
	if err != nil {
		return res, errors.Wrap(err, "unable to claim due reminders")
	}
	defer rows.Close()
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return res, err
		}
		res = append(res, rem)
	}
	return res, rows.Err()
}

// Reschedule replaces the record with a new expiry and re-queues it, leaving
// all other fields intact.
func (r *Repository) Reschedule(id string, next time.Time) error {
	_, err := r.db.Exec(
		`UPDATE reminder SET expires = $2, status = 'scheduled', claimed_at = NULL WHERE id = $1`,
		id, next.UTC())
	return errors.Wrapf(err, "unable to reschedule reminder %s", id)
}

func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM reminder WHERE id = $1`, id)
	return errors.Wrapf(err, "unable to delete reminder %s", id)
}

// Release puts a claimed reminder back in the queue after a failed dispatch.
func (r *Repository) Release(id string) error {
	_, err := r.db.Exec(
		`UPDATE reminder SET status = 'scheduled', claimed_at = NULL WHERE id = $1`, id)
	return errors.Wrapf(err, "unable to release reminder %s", id)
}

// ReleaseStale re-queues reminders stuck in dispatching past the claim
// timeout, the recovery path for a crash mid-dispatch.
func (r *Repository) ReleaseStale(olderThan time.Time) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE reminder SET status = 'scheduled', claimed_at = NULL
		WHERE status = 'dispatching' AND claimed_at < $1`, olderThan.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "unable to release stale reminders")
	}
	return res.RowsAffected()
}

func (r *Repository) ListByOwner(owner string) ([]Reminder, error) {
	res := make([]Reminder, 0)
	rows, err := r.db.Query(
		`SELECT id, owner, kind, content, expires, repeat, mode, filter_by, email_notification, email_address
		FROM reminder WHERE owner = $1 ORDER BY expires ASC`, owner)
	if err == sql.ErrNoRows {
		return res, nil
	}
	if err != nil {
		return res, errors.Wrapf(err, "unable to list reminders for owner %s", owner)
	}
	defer rows.Close()
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return res, err
		}
		res = append(res, rem)
	}
	return res, rows.Err()
}

// HasJobAlert reports whether the owner already has a job alert with the
// given filter.
func (r *Repository) HasJobAlert(owner, filterBy string) (bool, error) {
	var found bool
	row := r.db.QueryRow(
		`SELECT count(*) > 0 FROM reminder WHERE owner = $1 AND kind = $2 AND filter_by = $3`,
		owner, string(KindJobAlert), filterBy)
	if err := row.Scan(&found); err != nil {
		return false, errors.Wrapf(err, "unable to check job alerts for owner %s", owner)
	}
	return found, nil
}

// CountByStatus returns how many reminders sit in each status, for the ops
// endpoint.
func (r *Repository) CountByStatus() (map[string]int, error) {
	counts := make(map[string]int)
	rows, err := r.db.Query(`SELECT status, count(*) FROM reminder GROUP BY status`)
	if err != nil {
		return counts, errors.Wrap(err, "unable to count reminders")
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return counts, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanReminder(rows *sql.Rows) (Reminder, error) {
	var rem Reminder
	var kind, repeat, mode string
	err := rows.Scan(
		&rem.ID,
		&rem.Owner,
		&kind,
		&rem.Content,
		&rem.Expires,
		&repeat,
		&mode,
		&rem.FilterBy,
		&rem.EmailNotification,
		&rem.EmailAddress,
	)
	if err != nil {
		return rem, err
	}
	rem.Kind = Kind(kind)
	rem.Repeat = Repeat(repeat)
	rem.Mode = Mode(mode)
	return rem, nil
}
