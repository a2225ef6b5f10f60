package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type apiCall struct {
	path    string
	payload map[string]any
}

func newAPIServer(t *testing.T, responses map[string]string) (*httptest.Server, *[]apiCall) {
	t.Helper()
	var mu sync.Mutex
	calls := &[]apiCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		mu.Lock()
		*calls = append(*calls, apiCall{path: r.URL.Path, payload: payload})
		mu.Unlock()
		resp, ok := responses[r.URL.Path]
		if !ok {
			resp = `{"ok":true,"result":true}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestClientSendMessage(t *testing.T) {
	srv, calls := newAPIServer(t, nil)
	client := NewClient("TOKEN", srv.URL, srv.Client())

	err := client.SendMessage(context.Background(), OutgoingMessage{
		ChatID:      10,
		Text:        "<b>hi</b>",
		ParseMode:   ParseModeHTML,
		ReplyMarkup: cancelKeyboard(),
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(*calls) != 1 || (*calls)[0].path != "/botTOKEN/sendMessage" {
		t.Fatalf("unexpected calls: %+v", *calls)
	}
	payload := (*calls)[0].payload
	if payload["chat_id"].(float64) != 10 || payload["parse_mode"] != "HTML" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	markup, ok := payload["reply_markup"].(map[string]any)
	if !ok || markup["resize_keyboard"] != true {
		t.Fatalf("unexpected markup: %+v", payload["reply_markup"])
	}
}

func TestClientEditAndAnswer(t *testing.T) {
	srv, calls := newAPIServer(t, nil)
	client := NewClient("TOKEN", srv.URL, srv.Client())
	ctx := context.Background()

	if err := client.EditMessage(ctx, 5, 77, OutgoingMessage{Text: "page"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := client.AnswerCallback(ctx, "cb", "Закрыто"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := client.DeleteMessage(ctx, 5, 77); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if (*calls)[0].path != "/botTOKEN/editMessageText" || (*calls)[0].payload["message_id"].(float64) != 77 {
		t.Fatalf("unexpected edit call: %+v", (*calls)[0])
	}
	if (*calls)[1].payload["text"] != "Закрыто" {
		t.Fatalf("unexpected answer call: %+v", (*calls)[1])
	}
	if (*calls)[2].path != "/botTOKEN/deleteMessage" {
		t.Fatalf("unexpected delete call: %+v", (*calls)[2])
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"description":"bot was blocked"}`))
	}))
	defer srv.Close()

	err := NewClient("TOKEN", srv.URL, srv.Client()).SendMessage(context.Background(), OutgoingMessage{ChatID: 1, Text: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestClientGetUpdates(t *testing.T) {
	srv, calls := newAPIServer(t, map[string]string{
		"/botTOKEN/getUpdates": `{"ok":true,"result":[{"update_id":7,"message":{"message_id":1,"chat":{"id":3,"type":"private"},"text":"/start"}}]}`,
	})
	client := NewClient("TOKEN", srv.URL, srv.Client())

	updates, err := client.GetUpdates(context.Background(), 5, 90*time.Second, 500)
	if err != nil {
		t.Fatalf("get updates: %v", err)
	}
	if len(updates) != 1 || updates[0].UpdateID != 7 || updates[0].Message.Text != "/start" {
		t.Fatalf("unexpected updates: %+v", updates)
	}
	payload := (*calls)[0].payload
	if payload["timeout"].(float64) != 50 || payload["limit"].(float64) != 100 || payload["offset"].(float64) != 5 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	allowed, _ := payload["allowed_updates"].([]any)
	if len(allowed) != 2 || allowed[1] != "callback_query" {
		t.Fatalf("unexpected allowed updates: %+v", payload["allowed_updates"])
	}
}

func TestClientSetWebhookRequiresURL(t *testing.T) {
	client := NewClient("TOKEN", "http://127.0.0.1:0", nil)
	if err := client.SetWebhook(context.Background(), " ", "", false); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestClientSetWebhookSerializesDelivery(t *testing.T) {
	srv, calls := newAPIServer(t, nil)
	client := NewClient("TOKEN", srv.URL, srv.Client())

	if err := client.SetWebhook(context.Background(), "https://example.com/telegram/webhook", "secret", false); err != nil {
		t.Fatalf("set webhook: %v", err)
	}
	if len(*calls) != 1 || (*calls)[0].path != "/botTOKEN/setWebhook" {
		t.Fatalf("unexpected calls: %+v", *calls)
	}
	payload := (*calls)[0].payload
	if payload["max_connections"].(float64) != 1 || payload["secret_token"] != "secret" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

type scriptedSource struct {
	mu      sync.Mutex
	batches [][]Update
	offsets []int64
	deleted bool
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(_ context.Context, offset int64, _ time.Duration, _ int) ([]Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets = append(s.offsets, offset)
	if len(s.batches) == 0 {
		s.cancel()
		return nil, context.Canceled
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *scriptedSource) DeleteWebhook(context.Context, bool) error {
	s.deleted = true
	return nil
}

func TestPollerProcessesInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source := &scriptedSource{
		batches: [][]Update{
			{{UpdateID: 10}, {UpdateID: 11}},
			{{UpdateID: 12}},
		},
		cancel: cancel,
	}
	handler := &recordingHandler{err: errors.New("ignored")}
	poller := NewPoller(source, handler, slog.Default(), time.Second, time.Millisecond, 10, false)

	poller.Run(ctx)

	if !source.deleted {
		t.Fatalf("expected webhook removal before polling")
	}
	if len(handler.updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(handler.updates))
	}
	for i, want := range []int64{10, 11, 12} {
		if handler.updates[i].UpdateID != want {
			t.Fatalf("update %d: expected %d, got %d", i, want, handler.updates[i].UpdateID)
		}
	}
	if len(source.offsets) != 3 || source.offsets[1] != 12 || source.offsets[2] != 13 {
		t.Fatalf("unexpected offsets: %v", source.offsets)
	}
}
