package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"jobbot/internal/board"
)

// PageSize: одна вакансия на страницу.
const PageSize = 1

const (
	PayloadCurrent = "current_page"
	PayloadClose   = "close"
	payloadPrefix  = "page_"
)

type ControlKind string

const (
	ControlPrev      ControlKind = "prev"
	ControlIndicator ControlKind = "indicator"
	ControlNext      ControlKind = "next"
	ControlClose     ControlKind = "close"
)

// Control описывает кнопку под карточкой вакансии.
type Control struct {
	Kind    ControlKind
	Label   string
	Payload string
}

// Page хранит результат отрисовки. Empty означает, что вакансий нет вообще,
// Missing означает, что запрос страницы вернул пустой результат.
type Page struct {
	Empty      bool
	Missing    bool
	Index      int
	TotalPages int
	TotalCount int
	Vacancy    board.Vacancy
	Controls   [][]Control
}

type Presenter struct {
	vacancies board.VacancyRepository
	pageSize  int
}

func NewPresenter(vacancies board.VacancyRepository) *Presenter {
	return &Presenter{vacancies: vacancies, pageSize: PageSize}
}

// Render загружает страницу page, приводя индекс к допустимому диапазону.
// Количество вакансий пересчитывается при каждом вызове.
func (p *Presenter) Render(ctx context.Context, page int) (Page, error) {
	total, err := p.vacancies.CountVacancies(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("count vacancies: %w", err)
	}
	if total <= 0 {
		return Page{Empty: true}, nil
	}
	totalPages := (total + p.pageSize - 1) / p.pageSize
	page = Clamp(page, totalPages)

	items, err := p.vacancies.ListVacancies(ctx, p.pageSize, page*p.pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("list vacancies: %w", err)
	}
	if len(items) == 0 {
		return Page{Missing: true, Index: page, TotalPages: totalPages, TotalCount: total}, nil
	}
	return Page{
		Index:      page,
		TotalPages: totalPages,
		TotalCount: total,
		Vacancy:    items[0],
		Controls:   Controls(page, totalPages),
	}, nil
}

// Clamp приводит page к диапазону [0, totalPages-1].
func Clamp(page, totalPages int) int {
	if page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Controls строит ряд навигации и ряд с кнопкой закрытия.
func Controls(page, totalPages int) [][]Control {
	nav := make([]Control, 0, 3)
	if page > 0 {
		nav = append(nav, Control{Kind: ControlPrev, Label: "⬅️ Назад", Payload: PagePayload(page - 1)})
	}
	nav = append(nav, Control{
		Kind:    ControlIndicator,
		Label:   fmt.Sprintf("%d/%d", page+1, totalPages),
		Payload: PayloadCurrent,
	})
	if page < totalPages-1 {
		nav = append(nav, Control{Kind: ControlNext, Label: "Вперед ➡️", Payload: PagePayload(page + 1)})
	}
	return [][]Control{
		nav,
		{{Kind: ControlClose, Label: "✖️ Закрыть", Payload: PayloadClose}},
	}
}

func PagePayload(page int) string {
	return payloadPrefix + strconv.Itoa(page)
}

var ErrUnsupportedPayload = errors.New("unsupported callback payload")

type Action int

const (
	ActionPage Action = iota + 1
	ActionCurrent
	ActionClose
)

// ParsePayload разбирает callback data кнопок навигации.
func ParsePayload(data string) (Action, int, error) {
	switch data {
	case PayloadCurrent:
		return ActionCurrent, 0, nil
	case PayloadClose:
		return ActionClose, 0, nil
	}
	raw, ok := strings.CutPrefix(data, payloadPrefix)
	if !ok {
		return 0, 0, ErrUnsupportedPayload
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedPayload, data)
	}
	return ActionPage, page, nil
}
