package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"jobbot/internal/board"
	"jobbot/internal/common"
	"jobbot/internal/metrics"
	"jobbot/internal/pagination"
	"jobbot/internal/ratelimit"
	"jobbot/internal/wizard"
)

const (
	textGenericError  = "Произошла ошибка. Попробуйте позже."
	textRateLimited   = "Слишком много запросов. Подождите немного и попробуйте снова."
	textUseStart      = "Я не понял. Используйте /start, чтобы открыть меню."
	textOnlyCompanies = "Только компании могут публиковать вакансии!"
	textOnlyRecruiter = "Только рекрутеры могут просматривать вакансии!"
	textNoVacancies   = "Пока нет доступных вакансий. 🤷"
	textNotFound      = "Вакансии не найдены."
	textMinePending   = "Функция просмотра ваших вакансий будет добавлена в следующей версии."
	textOnThisPage    = "Вы на этой странице"
	textClosed        = "Закрыто"
)

var stepPrompts = map[wizard.Step]string{
	wizard.StepAwaitingCompanyName: "Отлично! Введите название вашей компании:",
	wizard.StepAwaitingContact:     "Введите ваш контакт для связи (например, @username или телефон):",
	wizard.StepAwaitingTitle:       "Давайте создадим новую вакансию! 📝\n\nВведите название вакансии:",
	wizard.StepAwaitingDescription: "Введите описание вакансии (требования, обязанности):",
	wizard.StepAwaitingSalary:      "Введите зарплату (например: 100,000 - 150,000 руб):",
	wizard.StepAwaitingLocation:    "Введите локацию (город или 'Удаленно'):",
}

// Bot маршрутизирует входящие обновления Telegram по роли пользователя и
// текущему шагу диалога.
type Bot struct {
	sender    Sender
	machine   *wizard.Machine
	users     board.UserRepository
	presenter *pagination.Presenter
	limiter   ratelimit.Limiter
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewBot создает обработчик бота Telegram.
func NewBot(sender Sender, machine *wizard.Machine, users board.UserRepository, presenter *pagination.Presenter, limiter ratelimit.Limiter, collector *metrics.Collector, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = ratelimit.NoopLimiter{}
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Bot{
		sender:    sender,
		machine:   machine,
		users:     users,
		presenter: presenter,
		limiter:   limiter,
		metrics:   collector,
		logger:    logger,
	}
}

// HandleUpdate обрабатывает одно обновление. Сбои хранилища и транспорта
// логируются, пользователь получает общее сообщение об ошибке.
func (b *Bot) HandleUpdate(ctx context.Context, update Update) error {
	b.metrics.IncUpdates()
	switch {
	case update.Message != nil:
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.fail(ctx, update, err)
		}
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			b.fail(ctx, update, err)
		}
	}
	return nil
}

func (b *Bot) fail(ctx context.Context, update Update, err error) {
	b.metrics.IncUpdateFailures()
	attrs := []any{slog.Int64("update_id", update.UpdateID), slog.String("error", err.Error())}
	var appErr *common.Error
	if errors.As(err, &appErr) {
		attrs = append(attrs, slog.String("code", string(appErr.Code)))
	}
	b.logger.Error("failed to handle telegram update", attrs...)

	var notifyErr error
	switch {
	case update.Message != nil:
		notifyErr = b.send(ctx, update.Message.Chat.ID, textGenericError, nil)
	case update.CallbackQuery != nil:
		notifyErr = b.sender.AnswerCallback(ctx, update.CallbackQuery.ID, textGenericError)
	}
	if notifyErr != nil {
		b.logger.Warn("failed to deliver error notice", slog.String("error", notifyErr.Error()))
	}
}

func (b *Bot) allow(ctx context.Context, userID int64) bool {
	return b.limiter.Allow(ctx, userID)
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) error {
	if msg.Chat.ID <= 0 {
		return nil
	}
	if msg.Chat.Type != "" && msg.Chat.Type != "private" {
		return nil
	}
	userID := msg.From.ID
	if userID == 0 {
		userID = msg.Chat.ID
	}
	if !b.allow(ctx, userID) {
		b.logger.Warn("telegram inbound rate limited", slog.Int64("user_id", userID))
		return b.send(ctx, msg.Chat.ID, textRateLimited, nil)
	}

	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID
	switch command(text) {
	case "/start", ButtonMainMenu:
		if err := b.machine.Reset(ctx, userID); err != nil {
			return err
		}
		b.logger.Info("user opened main menu", slog.Int64("user_id", userID), slog.String("username", msg.From.Username))
		return b.sendStart(ctx, chatID, userID)
	case ButtonCompany:
		res, err := b.machine.BeginCompanyRegistration(ctx, userID)
		if err != nil {
			return err
		}
		b.logger.Info("company registration started", slog.Int64("user_id", userID))
		return b.respond(ctx, chatID, userID, res)
	case ButtonRecruiter:
		res, err := b.machine.RegisterRecruiter(ctx, userID, msg.From.Username)
		if err != nil {
			return err
		}
		return b.respond(ctx, chatID, userID, res)
	case ButtonPublish:
		res, err := b.machine.BeginVacancy(ctx, userID)
		if err != nil {
			return err
		}
		return b.respond(ctx, chatID, userID, res)
	case ButtonMine:
		return b.send(ctx, chatID, textMinePending, companyMenu())
	case ButtonBrowse:
		return b.handleBrowse(ctx, chatID, userID)
	case ButtonCancel:
		res, err := b.machine.Cancel(ctx, userID)
		if err != nil {
			return err
		}
		if res.Outcome == wizard.OutcomeIdle {
			return nil
		}
		return b.respond(ctx, chatID, userID, res)
	}

	// поля анкеты сохраняются как есть, без обрезки пробелов
	res, err := b.machine.Submit(ctx, userID, msg.From.Username, msg.Text)
	if err != nil {
		return err
	}
	if res.Outcome == wizard.OutcomeIdle && text == "" {
		return nil
	}
	return b.respond(ctx, chatID, userID, res)
}

// command отрезает упоминание бота у команд вида /start@jobbot.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return text
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return text
	}
	cmd := fields[0]
	if idx := strings.Index(cmd, "@"); idx != -1 {
		cmd = cmd[:idx]
	}
	return cmd
}

func (b *Bot) respond(ctx context.Context, chatID, userID int64, res wizard.Result) error {
	switch res.Outcome {
	case wizard.OutcomePrompt:
		return b.send(ctx, chatID, stepPrompts[res.Step], cancelKeyboard())
	case wizard.OutcomeInvalidInput:
		b.logger.Debug("wizard input rejected", slog.Int64("user_id", userID), slog.String("error", res.Err.Error()))
		text := "Ответ не принят, попробуйте еще раз.\n\n" + stepPrompts[res.Step]
		return b.send(ctx, chatID, text, cancelKeyboard())
	case wizard.OutcomeRegistered:
		b.metrics.IncRegistrations()
		if res.User.IsCompany() {
			b.logger.Info("company registered", slog.Int64("user_id", userID), slog.String("company", res.User.CompanyName))
			text := fmt.Sprintf("Регистрация завершена! ✅\nКомпания: %s\nКонтакт: %s\n\nТеперь вы можете публиковать вакансии.", res.User.CompanyName, res.User.Contact)
			return b.send(ctx, chatID, text, companyMenu())
		}
		b.logger.Info("recruiter registered", slog.Int64("user_id", userID), slog.String("username", res.User.Username))
		return b.send(ctx, chatID, "Вы зарегистрированы как рекрутер! ✅\nТеперь вы можете просматривать вакансии.", recruiterMenu())
	case wizard.OutcomeVacancyCreated:
		b.metrics.IncVacanciesCreated()
		v := res.Vacancy
		b.logger.Info("vacancy created", slog.Int64("vacancy_id", v.ID), slog.Int64("company_id", v.CompanyID), slog.String("company", res.User.CompanyName))
		text := fmt.Sprintf("✅ Вакансия успешно опубликована!\n\n📌 %s\n💰 %s\n📍 %s\n📝 %s\n📞 Контакт: %s", v.Title, v.Salary, v.Location, v.Description, v.Contact)
		return b.send(ctx, chatID, text, companyMenu())
	case wizard.OutcomeCancelled:
		switch res.Wizard {
		case wizard.KindCompanyRegistration:
			return b.send(ctx, chatID, "Регистрация отменена.", startKeyboard())
		case wizard.KindVacancy:
			return b.send(ctx, chatID, "Создание вакансии отменено.", companyMenu())
		default:
			markup, err := b.roleMenu(ctx, userID)
			if err != nil {
				return err
			}
			return b.send(ctx, chatID, "Действие отменено.", markup)
		}
	case wizard.OutcomeRoleMismatch:
		b.logger.Info("role gate rejected", slog.Int64("user_id", userID), slog.String("error", res.Err.Error()))
		menu, err := b.roleMenu(ctx, userID)
		if err != nil {
			return err
		}
		return b.send(ctx, chatID, textOnlyCompanies, menu)
	default:
		return b.send(ctx, chatID, textUseStart, nil)
	}
}

// roleMenu возвращает меню по сохраненной роли, а незарегистрированным
// пользователям выбор роли.
func (b *Bot) roleMenu(ctx context.Context, userID int64) (*ReplyKeyboardMarkup, error) {
	user, err := b.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, board.ErrUserNotFound) {
			return startKeyboard(), nil
		}
		return nil, err
	}
	if user.IsCompany() {
		return companyMenu(), nil
	}
	return recruiterMenu(), nil
}

func (b *Bot) sendStart(ctx context.Context, chatID, userID int64) error {
	user, err := b.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, board.ErrUserNotFound) {
			return b.send(ctx, chatID, "Добро пожаловать в платформу найма! 👋\n\nВыберите, кто вы:", startKeyboard())
		}
		return err
	}
	if user.IsCompany() {
		return b.send(ctx, chatID, fmt.Sprintf("С возвращением, %s! 👋\nВыберите действие:", user.CompanyName), companyMenu())
	}
	return b.send(ctx, chatID, "С возвращением! 👋\nВыберите действие:", recruiterMenu())
}

func (b *Bot) handleBrowse(ctx context.Context, chatID, userID int64) error {
	user, err := b.users.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, board.ErrUserNotFound) {
		return err
	}
	if err != nil || !user.IsRecruiter() {
		return b.send(ctx, chatID, textOnlyRecruiter, nil)
	}

	page, err := b.presenter.Render(ctx, 0)
	if err != nil {
		return err
	}
	switch {
	case page.Empty:
		return b.send(ctx, chatID, textNoVacancies, recruiterMenu())
	case page.Missing:
		return b.send(ctx, chatID, textNotFound, recruiterMenu())
	}
	return b.sender.SendMessage(ctx, OutgoingMessage{
		ChatID:      chatID,
		Text:        pagination.FormatPage(page),
		ParseMode:   ParseModeHTML,
		ReplyMarkup: paginationKeyboard(page.Controls),
	})
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) error {
	if !b.allow(ctx, cb.From.ID) {
		b.logger.Warn("telegram inbound rate limited", slog.Int64("user_id", cb.From.ID))
		return b.sender.AnswerCallback(ctx, cb.ID, textRateLimited)
	}

	action, index, err := pagination.ParsePayload(cb.Data)
	if err != nil {
		b.logger.Debug("unsupported callback payload", slog.String("data", cb.Data))
		return b.sender.AnswerCallback(ctx, cb.ID, "")
	}
	if cb.Message == nil {
		return b.sender.AnswerCallback(ctx, cb.ID, "")
	}
	chatID, messageID := cb.Message.Chat.ID, cb.Message.MessageID

	switch action {
	case pagination.ActionCurrent:
		return b.sender.AnswerCallback(ctx, cb.ID, textOnThisPage)
	case pagination.ActionClose:
		if err := b.sender.DeleteMessage(ctx, chatID, messageID); err != nil {
			return err
		}
		return b.sender.AnswerCallback(ctx, cb.ID, textClosed)
	}

	page, err := b.presenter.Render(ctx, index)
	if err != nil {
		return err
	}
	edit := OutgoingMessage{Text: textNotFound}
	switch {
	case page.Empty:
		edit.Text = textNoVacancies
	case page.Missing:
	default:
		edit = OutgoingMessage{
			Text:        pagination.FormatPage(page),
			ParseMode:   ParseModeHTML,
			ReplyMarkup: paginationKeyboard(page.Controls),
		}
	}
	if err := b.sender.EditMessage(ctx, chatID, messageID, edit); err != nil {
		return err
	}
	return b.sender.AnswerCallback(ctx, cb.ID, "")
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, markup any) error {
	return b.sender.SendMessage(ctx, OutgoingMessage{ChatID: chatID, Text: text, ReplyMarkup: markup})
}
