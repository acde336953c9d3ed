package constants

const (
	SelectEvents = `
	SELECT event_id, title, location, start_at, organizer, raw_email_id, processed
	FROM events
	ORDER BY seq ASC
	`

	InsertEvent = `
	INSERT INTO events (event_id, title, location, start_at, organizer, raw_email_id, processed)
	VALUES (:event_id, :title, :location, :start_at, :organizer, :raw_email_id, :processed)
	`

	CountEvents = `
	SELECT COUNT(*) FROM events
	`
)
