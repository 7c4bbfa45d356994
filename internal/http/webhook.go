package http

import (
	"errors"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"moneybot/internal/ledger"
	"moneybot/internal/log"
)

// maxWebhookBody bounds the callback payload LINE may send.
const maxWebhookBody = 1 << 20

// handleCallback verifies the LINE signature and answers every text message.
// An engine failure before any event of the batch was handled answers 500 so
// LINE redelivers the whole batch. Once an event has been handled a redelivery
// would apply it twice, so later failures are logged and skipped. A reply
// failure is logged since the reply token cannot be reused.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentWebhook)

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	cb, err := webhook.ParseRequest(s.secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			logger.WarnContext(ctx, "Rejected webhook with invalid signature", log.FieldErrorType, log.ErrorTypeAuth)
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		logger.WarnContext(ctx, "Failed to parse webhook", log.FieldErrorType, log.ErrorTypeValidation, log.FieldError, err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	handled := 0
	for _, event := range cb.Events {
		msg, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		content, ok := msg.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		userID := sourceUserID(msg.Source)
		if userID == "" {
			logger.DebugContext(ctx, "Skipping message without user id")
			continue
		}

		resp, err := s.handler.HandleText(ctx, content.Text, userID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to handle message",
				log.FieldUserID, userID,
				"handled", handled,
				log.FieldErrorType, handlerErrorType(err),
				log.FieldError, err)
			if handled == 0 {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			continue
		}
		handled++
		if len(resp) == 0 {
			continue
		}
		if err := s.replier.Reply(ctx, msg.ReplyToken, resp); err != nil {
			logger.ErrorContext(ctx, "Failed to send reply",
				log.FieldUserID, userID,
				log.FieldOperation, log.OpReply,
				log.FieldErrorType, log.ErrorTypeNetwork,
				log.FieldError, err)
		}
	}

	w.WriteHeader(http.StatusOK)
}

func handlerErrorType(err error) string {
	if errors.Is(err, ledger.ErrStoreUnavailable) {
		return log.ErrorTypeDatabase
	}
	return log.ErrorTypeInternal
}

// sourceUserID returns the sender of a 1:1, group or room message.
func sourceUserID(src webhook.SourceInterface) string {
	switch s := src.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}
