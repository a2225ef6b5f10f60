package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type updatesSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration, limit int) ([]Update, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
}

type updateHandler interface {
	HandleUpdate(ctx context.Context, update Update) error
}

// Poller получает обновления через long polling и обрабатывает их строго по
// очереди, в порядке поступления.
type Poller struct {
	source      updatesSource
	handler     updateHandler
	logger      *slog.Logger
	timeout     time.Duration
	interval    time.Duration
	limit       int
	dropPending bool
	offset      int64
}

func NewPoller(source updatesSource, handler updateHandler, logger *slog.Logger, timeout, interval time.Duration, limit int, dropPending bool) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		source:      source,
		handler:     handler,
		logger:      logger,
		timeout:     timeout,
		interval:    interval,
		limit:       limit,
		dropPending: dropPending,
	}
}

// Run блокируется до отмены ctx.
func (p *Poller) Run(ctx context.Context) {
	// getUpdates не работает, пока у бота настроен webhook.
	if err := p.source.DeleteWebhook(ctx, p.dropPending); err != nil {
		p.logger.Warn("telegram delete webhook failed", slog.String("error", err.Error()))
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if err := p.poll(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			p.logger.Error("telegram polling failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.interval):
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	updates, err := p.source.GetUpdates(ctx, p.offset, p.timeout, p.limit)
	if err != nil {
		return err
	}
	for _, update := range updates {
		if update.UpdateID >= p.offset {
			p.offset = update.UpdateID + 1
		}
		if err := p.handler.HandleUpdate(ctx, update); err != nil {
			p.logger.Error("telegram update failed", slog.Int64("update_id", update.UpdateID), slog.String("error", err.Error()))
		}
	}
	return nil
}
