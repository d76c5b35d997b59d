package preference

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a user has never filled out the job form.
// Callers treat it as a guidance branch, not a failure.
var ErrNotFound = errors.New("no job preferences stored for user")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

// Save upserts a form submission. Blank answers leave previously stored
// values untouched so the two modal pages can be submitted independently.
func (r *Repository) Save(p JobPreferences) error {
	stmt := `INSERT INTO job_preference (user_id, city, work_type, employment_type, travel_distance, interests, last_updated)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id)
	DO UPDATE SET
		city = CASE WHEN EXCLUDED.city <> '' THEN EXCLUDED.city ELSE job_preference.city END,
		work_type = CASE WHEN EXCLUDED.work_type <> '' THEN EXCLUDED.work_type ELSE job_preference.work_type END,
		employment_type = CASE WHEN EXCLUDED.employment_type <> '' THEN EXCLUDED.employment_type ELSE job_preference.employment_type END,
		travel_distance = CASE WHEN EXCLUDED.travel_distance <> '' THEN EXCLUDED.travel_distance ELSE job_preference.travel_distance END,
		interests = CASE WHEN cardinality(EXCLUDED.interests) > 0 THEN EXCLUDED.interests ELSE job_preference.interests END,
		last_updated = EXCLUDED.last_updated`
	_, err := r.db.Exec(
		stmt,
		p.UserID,
		p.City,
		p.WorkType,
		p.EmploymentType,
		p.TravelDistance,
		pq.Array(p.Interests),
		time.Now().UTC(),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to save job preferences for user %s", p.UserID)
	}
	return nil
}

func (r *Repository) Get(userID string) (JobPreferences, error) {
	var p JobPreferences
	row := r.db.QueryRow(
		`SELECT user_id, city, work_type, employment_type, travel_distance, interests, last_updated
		FROM job_preference WHERE user_id = $1`, userID)
	err := row.Scan(
		&p.UserID,
		&p.City,
		&p.WorkType,
		&p.EmploymentType,
		&p.TravelDistance,
		pq.Array(&p.Interests),
		&p.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, errors.Wrapf(err, "unable to load job preferences for user %s", userID)
	}
	return p, nil
}

func (r *Repository) Delete(userID string) error {
	res, err := r.db.Exec(`DELETE FROM job_preference WHERE user_id = $1`, userID)
	if err != nil {
		return errors.Wrapf(err, "unable to delete job preferences for user %s", userID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
