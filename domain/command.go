package domain

// SendMessageCommand carries one send request into the chat service. The
// language fields are declarations, not guarantees: empty values are resolved
// by the service (detection for the source, the partner link for the target).
type SendMessageCommand struct {
	ChatID       ChatID
	SenderID     string
	Text         string
	FromLanguage string
	ToLanguage   string
}
