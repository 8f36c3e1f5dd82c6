package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sirupsen/logrus"
)

// LINE rejects text messages longer than this
const lineMaxText = 5000

// lineReplier is the part of the messaging API the webhook needs
type lineReplier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// LineWebhookHandler lets users talk to the coach from a LINE Official Account
type LineWebhookHandler struct {
	channelSecret string
	bot           lineReplier
	advisor       *services.Advisor
	chatLog       *services.ChatLogger
	log           *logrus.Logger
}

func NewLineWebhookHandler(channelSecret, channelToken string, advisor *services.Advisor, chatLog *services.ChatLogger, log *logrus.Logger) (*LineWebhookHandler, error) {
	bot, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Line bot: %w", err)
	}
	return newLineWebhookHandler(channelSecret, bot, advisor, chatLog, log), nil
}

func newLineWebhookHandler(channelSecret string, bot lineReplier, advisor *services.Advisor, chatLog *services.ChatLogger, log *logrus.Logger) *LineWebhookHandler {
	return &LineWebhookHandler{
		channelSecret: channelSecret,
		bot:           bot,
		advisor:       advisor,
		chatLog:       chatLog,
		log:           log,
	}
}

func (h *LineWebhookHandler) HandleWebhook(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		h.log.WithFields(requestFields(c)).WithError(err).Warn("Failed to parse LINE webhook")
		if errors.Is(err, webhook.ErrInvalidSignature) {
			c.Status(http.StatusBadRequest)
		} else {
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	for _, event := range cb.Events {
		switch e := event.(type) {
		case webhook.MessageEvent:
			h.handleMessage(c.Request.Context(), e)
		case webhook.FollowEvent:
			h.replyText(e.ReplyToken, "👋 Hi! I'm FinMentor, your money coach.\n\n"+
				"Tell me your income and a goal, e.g. \"I earn ₹40,000 and want a laptop in 6 months\".")
		}
	}

	c.Status(http.StatusOK)
}

func (h *LineWebhookHandler) handleMessage(ctx context.Context, event webhook.MessageEvent) {
	message, ok := event.Message.(webhook.TextMessageContent)
	if !ok {
		h.replyText(event.ReplyToken, "I can only read text messages for now. Ask me about saving, budgeting or investing!")
		return
	}

	text := strings.TrimSpace(message.Text)
	reply := h.advisor.Reply(ctx, services.AdviceRequest{Message: text})
	h.replyWithSuggestions(event.ReplyToken, reply)

	entry := services.SearchLog{Source: services.SourceLine}
	if lineUser := h.getUserID(event.Source); lineUser != "" {
		userID := "line:" + lineUser
		entry.UserID = &userID
	}
	if text != "" {
		entry.Query = &text
	}
	if intent := services.ParseIntent(text); intent.StatedIncome > 0 {
		income := intent.StatedIncome
		entry.Income = &income
	}
	h.chatLog.LogAsync(ctx, entry)
}

func (h *LineWebhookHandler) getUserID(source webhook.SourceInterface) string {
	switch src := source.(type) {
	case *webhook.UserSource:
		return src.UserId
	case webhook.UserSource:
		return src.UserId
	case *webhook.GroupSource:
		return src.UserId
	case webhook.GroupSource:
		return src.UserId
	case *webhook.RoomSource:
		return src.UserId
	case webhook.RoomSource:
		return src.UserId
	}
	return ""
}

func (h *LineWebhookHandler) replyText(replyToken, text string) {
	h.reply(replyToken, messaging_api.TextMessage{Text: truncateText(text)})
}

// replyWithSuggestions attaches quick replies for the questions the coach answers best
func (h *LineWebhookHandler) replyWithSuggestions(replyToken, text string) {
	h.reply(replyToken, messaging_api.TextMessage{
		Text: truncateText(text),
		QuickReply: &messaging_api.QuickReply{
			Items: []messaging_api.QuickReplyItem{
				{Action: &messaging_api.MessageAction{Label: "50/30/20 rule", Text: "What's the 50/30/20 rule?"}},
				{Action: &messaging_api.MessageAction{Label: "Saving tips", Text: "How can I save more money?"}},
				{Action: &messaging_api.MessageAction{Label: "Investing", Text: "Should I invest?"}},
			},
		},
	})
}

func (h *LineWebhookHandler) reply(replyToken string, message messaging_api.MessageInterface) {
	if replyToken == "" {
		return
	}
	_, err := h.bot.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   []messaging_api.MessageInterface{message},
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to send LINE reply")
	}
}

func truncateText(text string) string {
	if utf8.RuneCountInString(text) <= lineMaxText {
		return text
	}
	runes := []rune(text)
	return string(runes[:lineMaxText-1]) + "…"
}
