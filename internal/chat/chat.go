package chat

// FallbackReply is appended in place of an answer whenever a chat request
// fails for any reason.
const FallbackReply = "Sorry, there was an error processing your message. Please try again."

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one transcript entry. Entries are never edited once appended.
type Message struct {
	Sender Sender
	Text   string
}

func userMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text}
}

func botMessage(text string) Message {
	return Message{Sender: SenderBot, Text: text}
}
