package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"moneybot/internal/ledger"
)

// Replier delivers a ledger response through a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, resp ledger.Response) error
}

// maxReplyMessages is the most messages one LINE reply may carry.
const maxReplyMessages = 5

const replyTimeout = 10 * time.Second

// LineReplier sends replies with the Messaging API.
type LineReplier struct {
	api *messaging_api.MessagingApiAPI
}

// NewLineReplier creates a replier for the channel access token. A non-empty
// endpoint overrides the API host.
func NewLineReplier(accessToken, endpoint string) (*LineReplier, error) {
	options := []messaging_api.MessagingApiAPIOption{
		messaging_api.WithHTTPClient(&http.Client{Timeout: replyTimeout}),
	}
	if endpoint != "" {
		options = append(options, messaging_api.WithEndpoint(endpoint))
	}
	api, err := messaging_api.NewMessagingApiAPI(accessToken, options...)
	if err != nil {
		return nil, fmt.Errorf("create messaging api client: %w", err)
	}
	return &LineReplier{api: api}, nil
}

// Reply implements Replier. The shared client is not rebound per call, so the
// deadline comes from replyTimeout rather than ctx.
func (l *LineReplier) Reply(_ context.Context, replyToken string, resp ledger.Response) error {
	msgs := toLineMessages(resp)
	if len(msgs) == 0 {
		return nil
	}
	_, err := l.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   msgs,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

func toLineMessages(resp ledger.Response) []messaging_api.MessageInterface {
	out := make([]messaging_api.MessageInterface, 0, len(resp))
	for _, m := range resp {
		if len(out) == maxReplyMessages {
			break
		}
		switch msg := m.(type) {
		case ledger.TextMessage:
			out = append(out, messaging_api.TextMessage{Text: msg.Text})
		case ledger.ImageMessage:
			out = append(out, messaging_api.ImageMessage{
				OriginalContentUrl: msg.URL,
				PreviewImageUrl:    msg.PreviewURL,
			})
		}
	}
	return out
}
