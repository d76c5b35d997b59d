package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Table Structure:
//
// CREATE TABLE IF NOT EXISTS job_preference (
// 	user_id VARCHAR(255) NOT NULL UNIQUE,
// 	city VARCHAR(255) NOT NULL DEFAULT '',
// 	work_type VARCHAR(50) NOT NULL DEFAULT '',
// 	employment_type VARCHAR(50) NOT NULL DEFAULT '',
// 	travel_distance VARCHAR(20) NOT NULL DEFAULT '',
// 	interests TEXT[] NOT NULL DEFAULT '{}',
// 	last_updated TIMESTAMP NOT NULL,
// 	PRIMARY KEY(user_id)
// );

// CREATE TABLE IF NOT EXISTS reminder (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	owner VARCHAR(255) NOT NULL,
// 	kind VARCHAR(10) NOT NULL,
// 	content TEXT NOT NULL,
// 	expires TIMESTAMP NOT NULL,
// 	repeat VARCHAR(10) NOT NULL DEFAULT 'none',
// 	mode VARCHAR(10) NOT NULL,
// 	filter_by VARCHAR(20) NOT NULL DEFAULT 'default',
// 	email_notification BOOLEAN NOT NULL DEFAULT FALSE,
// 	email_address VARCHAR(255) NOT NULL DEFAULT '',
// 	status VARCHAR(15) NOT NULL DEFAULT 'scheduled',
// 	claimed_at TIMESTAMP DEFAULT NULL,
// 	PRIMARY KEY(id)
// );

// CREATE INDEX reminder_expires_idx ON reminder (expires) WHERE status = 'scheduled';
// CREATE UNIQUE INDEX reminder_job_alert_filter_idx ON reminder (owner, filter_by) WHERE kind = 'job-alert';

// GetDbConn tries to establish a connection to postgres and return the connection handler
func GetDbConn(databaseUser string, databasePassword string, databaseHost string, databasePort string, databaseName string, sslMode string) (*sql.DB, error) {
	databaseURL := fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=%s",
		databaseUser,
		databasePassword,
		databaseHost,
		databasePort,
		databaseName,
		sslMode,
	)
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}
