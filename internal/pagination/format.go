package pagination

import (
	"fmt"
	"html"
	"strings"

	"jobbot/internal/board"
)

// FormatVacancy рендерит карточку вакансии в HTML-разметке Telegram.
func FormatVacancy(v board.Vacancy, position, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 <b>%s</b>\n\n", html.EscapeString(v.Title))
	fmt.Fprintf(&b, "💰 Зарплата: %s\n", html.EscapeString(v.Salary))
	fmt.Fprintf(&b, "📍 Локация: %s\n\n", html.EscapeString(v.Location))
	fmt.Fprintf(&b, "📝 Описание:\n%s\n\n", html.EscapeString(v.Description))
	fmt.Fprintf(&b, "📞 Контакт: %s\n\n", html.EscapeString(v.Contact))
	fmt.Fprintf(&b, "Вакансия %d из %d", position, total)
	return b.String()
}

// FormatPage рендерит карточку уже загруженной страницы.
func FormatPage(p Page) string {
	return FormatVacancy(p.Vacancy, p.Index+1, p.TotalCount)
}
