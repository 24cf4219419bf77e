package model

import "time"

// TimestampLayout renders record timestamps as ISO-8601 UTC with millisecond
// precision, e.g. 2026-02-28T12:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// LogRecord is the value appended to the log for a change that classified positive.
type LogRecord struct {
	Timestamp    time.Time
	Document     string
	InsertedText string
}

// NewLogRecord creates a record for the change, stamped at ts.
func NewLogRecord(change ChangeEvent, ts time.Time) LogRecord {
	return LogRecord{
		Timestamp:    ts,
		Document:     change.Document,
		InsertedText: change.InsertedText,
	}
}

// Stamp returns the record's timestamp in TimestampLayout.
func (r LogRecord) Stamp() string {
	return r.Timestamp.UTC().Format(TimestampLayout)
}
