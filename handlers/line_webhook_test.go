package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/finmentor/backend/logger"
	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

const testChannelSecret = "test-secret"

// mockReplier records every reply instead of calling LINE
type mockReplier struct {
	mu      sync.Mutex
	replies []*messaging_api.ReplyMessageRequest
}

func (m *mockReplier) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, req)
	return &messaging_api.ReplyMessageResponse{}, nil
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testChannelSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newLineTestRouter(store services.Store) (*gin.Engine, *mockReplier, *services.ChatLogger) {
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	chatLog := services.NewChatLogger(store, log)
	bot := &mockReplier{}
	line := newLineWebhookHandler(testChannelSecret, bot, services.NewAdvisor(nil, log), chatLog, log)

	router := NewRouter(Deps{Store: store, ChatLog: chatLog, Line: line, Log: log})
	return router, bot, chatLog
}

func postWebhook(router *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/line", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signature)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const textEventBody = `{
  "destination": "Ubot",
  "events": [{
    "type": "message",
    "mode": "active",
    "timestamp": 1700000000000,
    "webhookEventId": "01HEVENT",
    "deliveryContext": {"isRedelivery": false},
    "replyToken": "reply-1",
    "source": {"type": "user", "userId": "U1"},
    "message": {"type": "text", "id": "m1", "quoteToken": "q1", "text": "I earn 40000 and want a laptop in 6 months"}
  }]
}`

func TestLineWebhookTextMessage(t *testing.T) {
	store := services.NewMemoryStore()
	router, bot, chatLog := newLineTestRouter(store)

	w := postWebhook(router, textEventBody, sign(textEventBody))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	if len(bot.replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(bot.replies))
	}
	reply := bot.replies[0]
	if reply.ReplyToken != "reply-1" {
		t.Errorf("reply token = %q", reply.ReplyToken)
	}
	msg, ok := reply.Messages[0].(messaging_api.TextMessage)
	if !ok {
		t.Fatalf("reply message type = %T", reply.Messages[0])
	}
	if !strings.Contains(msg.Text, "laptop") || msg.QuickReply == nil || len(msg.QuickReply.Items) != 3 {
		t.Errorf("reply = %+v", msg)
	}

	chatLog.Wait()
	logs, _ := store.ListSearches(context.Background(), services.SearchFilter{UserID: "line:U1"})
	if len(logs) != 1 {
		t.Fatalf("logged = %d, want 1", len(logs))
	}
	if logs[0].Source != services.SourceLine || logs[0].Income == nil || *logs[0].Income != 40000 {
		t.Errorf("log entry = %+v", logs[0])
	}
}

func TestLineWebhookFollowAndSticker(t *testing.T) {
	body := `{
  "destination": "Ubot",
  "events": [
    {"type": "follow", "mode": "active", "timestamp": 1700000000000, "webhookEventId": "e1",
     "deliveryContext": {"isRedelivery": false}, "replyToken": "follow-1",
     "source": {"type": "user", "userId": "U2"}, "follow": {"isUnblocked": false}},
    {"type": "message", "mode": "active", "timestamp": 1700000000001, "webhookEventId": "e2",
     "deliveryContext": {"isRedelivery": false}, "replyToken": "sticker-1",
     "source": {"type": "user", "userId": "U2"},
     "message": {"type": "sticker", "id": "m2", "quoteToken": "q2", "packageId": "1", "stickerId": "1", "stickerResourceType": "STATIC"}}
  ]
}`
	router, bot, _ := newLineTestRouter(nil)

	if w := postWebhook(router, body, sign(body)); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(bot.replies) != 2 {
		t.Fatalf("replies = %d, want 2", len(bot.replies))
	}
	welcome := bot.replies[0].Messages[0].(messaging_api.TextMessage)
	if !strings.Contains(welcome.Text, "FinMentor") {
		t.Errorf("welcome = %q", welcome.Text)
	}
	fallback := bot.replies[1].Messages[0].(messaging_api.TextMessage)
	if !strings.Contains(fallback.Text, "only read text") {
		t.Errorf("fallback = %q", fallback.Text)
	}
}

func TestLineWebhookInvalidSignature(t *testing.T) {
	router, bot, _ := newLineTestRouter(nil)

	w := postWebhook(router, textEventBody, "bm90LWEtc2lnbmF0dXJl")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(bot.replies) != 0 {
		t.Errorf("replies = %d, want none", len(bot.replies))
	}
}

func TestLineRouteOnlyWhenConfigured(t *testing.T) {
	w := newTestServer(nil).do(http.MethodPost, "/webhook/line", "{}")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestTruncateText(t *testing.T) {
	long := strings.Repeat("₹", lineMaxText+10)
	got := truncateText(long)
	if n := len([]rune(got)); n != lineMaxText {
		t.Errorf("truncated length = %d, want %d", n, lineMaxText)
	}
	if truncateText("short") != "short" {
		t.Error("short text should be unchanged")
	}
}
