// Package copilotlog records large or multi-line text insertions, the kind
// an AI completion or a paste produces, to an append-only log file.
//
// Quick start:
//
//	l, err := copilotlog.New(copilotlog.WithStorageDir(dir))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Close()
//
//	// Call for every content change the editor reports.
//	recorded, err := l.Observe("/src/main.go", insertedText)
//
// An insertion is recorded when it is longer than 20 characters or
// contains a newline. Each record is appended to copilot-log.txt in the
// storage directory as
//
//	[2026-02-28T12:00:00.000Z] [/src/main.go]:
//	<inserted text>
//	---
//
// The storage directory is created on the first record. The Logger is safe
// for concurrent use, though records are only ordered within one goroutine.
package copilotlog
