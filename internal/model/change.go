package model

// ChangeEvent is one content change within a document-change notification.
type ChangeEvent struct {
	Document     string // path or name the host uses for the edited document
	InsertedText string // text inserted by the change, possibly empty
}

// Notification is a single document-change notification as delivered by a
// source. It carries one or more content changes for the same document.
type Notification struct {
	Document string
	Changes  []ChangeEvent
}

// NewNotification builds a Notification for document from the inserted texts,
// one ChangeEvent per text, preserving order.
func NewNotification(document string, texts ...string) Notification {
	changes := make([]ChangeEvent, len(texts))
	for i, text := range texts {
		changes[i] = ChangeEvent{Document: document, InsertedText: text}
	}
	return Notification{Document: document, Changes: changes}
}
