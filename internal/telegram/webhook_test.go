package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordingHandler struct {
	updates []Update
	err     error
}

func (h *recordingHandler) HandleUpdate(_ context.Context, update Update) error {
	h.updates = append(h.updates, update)
	return h.err
}

func signedRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "secret")
	return req
}

func TestWebhookUnauthorized(t *testing.T) {
	handler := NewWebhookHandler(&recordingHandler{}, "secret", slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(`{"update_id":1}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Result().StatusCode)
	}
}

func TestWebhookWithoutSecretRejectsEverything(t *testing.T) {
	h := &recordingHandler{}
	handler := NewWebhookHandler(h, "", slog.Default())

	payload := `{"update_id":1,"message":{"message_id":1,"chat":{"id":777,"type":"private"},"from":{"id":777},"text":"🏢 Я компания"}}`
	for _, secret := range []string{"", "anything"} {
		req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(payload))
		if secret != "" {
			req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Result().StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 for header %q, got %d", secret, rec.Result().StatusCode)
		}
	}
	if len(h.updates) != 0 {
		t.Fatalf("expected no updates to reach the bot, got %d", len(h.updates))
	}
}

func TestWebhookRejectsGet(t *testing.T) {
	handler := NewWebhookHandler(&recordingHandler{}, "secret", slog.Default())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/telegram/webhook", nil))
	if rec.Result().StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Result().StatusCode)
	}
}

func TestWebhookInvalidPayload(t *testing.T) {
	handler := NewWebhookHandler(&recordingHandler{}, "secret", slog.Default())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest("{"))
	if rec.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Result().StatusCode)
	}
}

func TestWebhookSuccess(t *testing.T) {
	tb := newTestBot(t)
	handler := NewWebhookHandler(tb.bot, "secret", slog.Default())

	payload := `{"update_id":1,"message":{"message_id":1,"chat":{"id":12,"type":"private"},"from":{"id":12,"username":"acme"},"text":"/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(payload))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Result().StatusCode)
	}
	if tb.sender.last().ChatID != 12 {
		t.Fatalf("expected chat id 12, got %d", tb.sender.last().ChatID)
	}
}

func TestWebhookCallbackPayload(t *testing.T) {
	h := &recordingHandler{}
	handler := NewWebhookHandler(h, "secret", slog.Default())

	payload := `{"update_id":2,"callback_query":{"id":"abc","from":{"id":5},"data":"page_3","message":{"message_id":9,"chat":{"id":5,"type":"private"}}}}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(payload))
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Result().StatusCode)
	}
	if len(h.updates) != 1 || h.updates[0].CallbackQuery == nil || h.updates[0].CallbackQuery.Data != "page_3" {
		t.Fatalf("unexpected decoded update: %+v", h.updates)
	}
	if h.updates[0].CallbackQuery.Message.MessageID != 9 {
		t.Fatalf("expected message id 9")
	}
}

func TestWebhookHandlerErrorStillAcknowledged(t *testing.T) {
	handler := NewWebhookHandler(&recordingHandler{err: errors.New("boom")}, "secret", slog.Default())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(`{"update_id":3}`))
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Result().StatusCode)
	}
}
