package telegram

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"jobbot/internal/observability"
)

const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler проверяет запросы Telegram webhook и передает обновления боту.
type WebhookHandler struct {
	bot          updateHandler
	secretToken  string
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewWebhookHandler создает обработчик webhook, который проверяет секретный токен Telegram.
// Без секрета обработчик отклоняет все запросы.
func NewWebhookHandler(bot updateHandler, secretToken string, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		bot:          bot,
		secretToken:  secretToken,
		maxBodyBytes: 1 << 20,
		logger:       logger,
	}
}

// ServeHTTP отвечает 200 даже при сбое обработки: повторная доставка того же
// обновления не нужна.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	requestID := observability.RequestIDFromContext(r.Context())

	if h.secretToken == "" || r.Header.Get(telegramSecretHeader) != h.secretToken {
		h.logger.Warn("unauthorized webhook request", slog.String("request_id", requestID))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	payload, err := io.ReadAll(body)
	if err != nil {
		h.logger.Warn("failed to read webhook body", slog.String("request_id", requestID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var update Update
	if err := json.Unmarshal(payload, &update); err != nil {
		h.logger.Warn("invalid webhook payload", slog.String("request_id", requestID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.bot.HandleUpdate(r.Context(), update); err != nil {
		h.logger.Error("failed to handle telegram update", slog.String("request_id", requestID), slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusOK)
}
