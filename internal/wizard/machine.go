package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jobbot/internal/board"
	"jobbot/internal/common"
)

// CancelInput отменяет мастер на любом шаге.
const CancelInput = "❌ Отмена"

type Outcome int

const (
	// OutcomeIdle: активного мастера нет, ввод не обработан.
	OutcomeIdle Outcome = iota
	OutcomePrompt
	OutcomeInvalidInput
	OutcomeRegistered
	OutcomeVacancyCreated
	OutcomeCancelled
	OutcomeRoleMismatch
)

// Result описывает переход, который совершила машина.
type Result struct {
	Outcome Outcome
	Step    Step
	Wizard  Kind
	User    board.User
	Vacancy board.Vacancy
	Err     error
}

// Machine ведет пошаговые диалоги регистрации компании и публикации вакансии.
// Запись в хранилище происходит только на последнем шаге.
type Machine struct {
	states    StateRepository
	users     board.UserRepository
	vacancies board.VacancyRepository
	validator Validator
	clock     func() time.Time
	logger    *slog.Logger
}

type Option func(*Machine)

// WithValidator заменяет проверку ответов по умолчанию.
func WithValidator(v Validator) Option {
	return func(m *Machine) {
		if v != nil {
			m.validator = v
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(m *Machine) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func NewMachine(states StateRepository, users board.UserRepository, vacancies board.VacancyRepository, logger *slog.Logger, opts ...Option) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Machine{
		states:    states,
		users:     users,
		vacancies: vacancies,
		validator: NonEmpty,
		clock:     time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current возвращает текущее состояние пользователя.
func (m *Machine) Current(ctx context.Context, userID int64) (State, error) {
	return m.states.Get(ctx, userID)
}

// Reset безусловно сбрасывает диалог пользователя.
func (m *Machine) Reset(ctx context.Context, userID int64) error {
	return m.states.Clear(ctx, userID)
}

// BeginCompanyRegistration запускает регистрацию компании. Незавершенная
// форма другого мастера отбрасывается.
func (m *Machine) BeginCompanyRegistration(ctx context.Context, userID int64) (Result, error) {
	if err := m.enter(ctx, userID, StepAwaitingCompanyName); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomePrompt, Step: StepAwaitingCompanyName, Wizard: KindCompanyRegistration}, nil
}

// RegisterRecruiter сразу сохраняет пользователя с ролью рекрутера.
func (m *Machine) RegisterRecruiter(ctx context.Context, userID int64, handle string) (Result, error) {
	user := board.User{ID: userID, Username: handle, Role: board.RoleRecruiter}
	if err := m.users.SaveUser(ctx, user); err != nil {
		return Result{}, fmt.Errorf("save recruiter: %w", err)
	}
	if err := m.states.Clear(ctx, userID); err != nil {
		m.logger.Error("state clear failed", slog.Int64("user_id", userID), slog.String("error", err.Error()))
	}
	return Result{Outcome: OutcomeRegistered, Step: StepIdle, User: user}, nil
}

var errCompanyOnly = common.NewError(common.CodeForbidden, "only companies can publish vacancies", nil)

// BeginVacancy запускает публикацию вакансии; доступно только компаниям.
func (m *Machine) BeginVacancy(ctx context.Context, userID int64) (Result, error) {
	user, err := m.users.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, board.ErrUserNotFound) {
		return Result{}, fmt.Errorf("load user: %w", err)
	}
	if err != nil || !user.IsCompany() {
		return Result{Outcome: OutcomeRoleMismatch, Step: StepIdle, Wizard: KindVacancy, Err: errCompanyOnly}, nil
	}
	if err := m.enter(ctx, userID, StepAwaitingTitle); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomePrompt, Step: StepAwaitingTitle, Wizard: KindVacancy, User: user}, nil
}

func (m *Machine) enter(ctx context.Context, userID int64, step Step) error {
	current, err := m.states.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if current.Active() {
		m.logger.Debug("discarding unfinished wizard", slog.Int64("user_id", userID), slog.String("step", string(current.Step)))
	}
	if err := m.states.Save(ctx, userID, State{Step: step, UpdatedAt: m.clock()}); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Cancel возвращает пользователя в idle без записи в хранилище.
func (m *Machine) Cancel(ctx context.Context, userID int64) (Result, error) {
	current, err := m.states.Get(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("load state: %w", err)
	}
	if !current.Active() {
		return Result{Outcome: OutcomeIdle, Step: StepIdle}, nil
	}
	if err := m.states.Clear(ctx, userID); err != nil {
		return Result{}, fmt.Errorf("clear state: %w", err)
	}
	return Result{Outcome: OutcomeCancelled, Step: StepIdle, Wizard: current.Step.Kind()}, nil
}

// Submit принимает текстовый ответ на текущем шаге.
func (m *Machine) Submit(ctx context.Context, userID int64, handle, text string) (Result, error) {
	if text == CancelInput {
		return m.Cancel(ctx, userID)
	}
	state, err := m.states.Get(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("load state: %w", err)
	}
	if !state.Active() {
		return Result{Outcome: OutcomeIdle, Step: StepIdle}, nil
	}
	kind := state.Step.Kind()
	if err := m.validator.Validate(state.Step.Field(), text); err != nil {
		return Result{Outcome: OutcomeInvalidInput, Step: state.Step, Wizard: kind, Err: common.NewError(common.CodeValidation, "invalid "+string(state.Step.Field()), err)}, nil
	}

	switch state.Step {
	case StepAwaitingCompanyName:
		state.Form.CompanyName = text
		return m.advance(ctx, userID, state, StepAwaitingContact)
	case StepAwaitingContact:
		return m.completeRegistration(ctx, userID, handle, state.Form, text)
	case StepAwaitingTitle:
		state.Form.Title = text
		return m.advance(ctx, userID, state, StepAwaitingDescription)
	case StepAwaitingDescription:
		state.Form.Description = text
		return m.advance(ctx, userID, state, StepAwaitingSalary)
	case StepAwaitingSalary:
		state.Form.Salary = text
		return m.advance(ctx, userID, state, StepAwaitingLocation)
	case StepAwaitingLocation:
		return m.completeVacancy(ctx, userID, state.Form, text)
	default:
		return Result{}, fmt.Errorf("unknown wizard step %q", state.Step)
	}
}

func (m *Machine) advance(ctx context.Context, userID int64, state State, next Step) (Result, error) {
	state.Step = next
	state.UpdatedAt = m.clock()
	if err := m.states.Save(ctx, userID, state); err != nil {
		return Result{}, fmt.Errorf("save state: %w", err)
	}
	return Result{Outcome: OutcomePrompt, Step: next, Wizard: next.Kind()}, nil
}

func (m *Machine) completeRegistration(ctx context.Context, userID int64, handle string, form Form, contact string) (Result, error) {
	user := board.User{
		ID:          userID,
		Username:    handle,
		Role:        board.RoleCompany,
		CompanyName: form.CompanyName,
		Contact:     contact,
	}
	if err := m.users.SaveUser(ctx, user); err != nil {
		return Result{}, fmt.Errorf("save company: %w", err)
	}
	m.finish(ctx, userID)
	return Result{Outcome: OutcomeRegistered, Step: StepIdle, Wizard: KindCompanyRegistration, User: user}, nil
}

func (m *Machine) completeVacancy(ctx context.Context, userID int64, form Form, location string) (Result, error) {
	user, err := m.users.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, board.ErrUserNotFound) {
		return Result{}, fmt.Errorf("load company: %w", err)
	}
	if err != nil || !user.IsCompany() {
		m.finish(ctx, userID)
		return Result{Outcome: OutcomeRoleMismatch, Step: StepIdle, Wizard: KindVacancy, Err: errCompanyOnly}, nil
	}
	vacancy := board.Vacancy{
		CompanyID:   userID,
		Title:       form.Title,
		Description: form.Description,
		Salary:      form.Salary,
		Location:    location,
		Contact:     user.Contact,
		CreatedAt:   m.clock(),
	}
	id, err := m.vacancies.CreateVacancy(ctx, vacancy)
	if err != nil {
		return Result{}, fmt.Errorf("create vacancy: %w", err)
	}
	vacancy.ID = id
	m.finish(ctx, userID)
	return Result{Outcome: OutcomeVacancyCreated, Step: StepIdle, Wizard: KindVacancy, User: user, Vacancy: vacancy}, nil
}

// finish сбрасывает состояние после фиксации. Ошибка сброса только логируется.
func (m *Machine) finish(ctx context.Context, userID int64) {
	if err := m.states.Clear(ctx, userID); err != nil {
		m.logger.Error("state clear failed", slog.Int64("user_id", userID), slog.String("error", err.Error()))
	}
}
