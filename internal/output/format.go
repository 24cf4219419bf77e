package output

import "github.com/hejijunhao/copilotlog/internal/model"

// Separator terminates every record in the log.
const Separator = "---"

// FormatRecord renders a record as
//
//	[<timestamp>] [<document>]:
//	<inserted text>
//	---
//
// Neither field is escaped; inserted text is written verbatim.
func FormatRecord(r model.LogRecord) string {
	return "[" + r.Stamp() + "] [" + r.Document + "]:\n" + r.InsertedText + "\n" + Separator + "\n"
}
