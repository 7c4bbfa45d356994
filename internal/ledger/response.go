package ledger

// Message is one outbound chat payload. It is either a TextMessage or an
// ImageMessage.
type Message interface {
	isMessage()
}

type TextMessage struct {
	Text string
}

type ImageMessage struct {
	URL        string
	PreviewURL string
}

func (TextMessage) isMessage()  {}
func (ImageMessage) isMessage() {}

// Response is the ordered list of messages sent back for one inbound message.
type Response []Message

func text(s string) Response {
	return Response{TextMessage{Text: s}}
}
