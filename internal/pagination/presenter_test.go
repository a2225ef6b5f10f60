package pagination

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jobbot/internal/board"
	"jobbot/internal/store/memory"
)

func seededStore(t *testing.T, n int) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := store.CreateVacancy(context.Background(), board.Vacancy{
			CompanyID: 100,
			Title:     "Vacancy " + string(rune('A'+i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create vacancy: %v", err)
		}
	}
	return store
}

func TestRenderEmpty(t *testing.T) {
	p := NewPresenter(memory.NewStore())
	page, err := p.Render(context.Background(), 0)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !page.Empty || page.Controls != nil {
		t.Fatalf("expected empty page without controls, got %+v", page)
	}
	page, err = p.Render(context.Background(), 5)
	if err != nil || !page.Empty {
		t.Fatalf("expected empty path for any index, got %+v, %v", page, err)
	}
}

func TestRenderClampsIndex(t *testing.T) {
	p := NewPresenter(seededStore(t, 3))
	cases := []struct {
		requested int
		want      int
		title     string
	}{
		{requested: -4, want: 0, title: "Vacancy C"},
		{requested: 0, want: 0, title: "Vacancy C"},
		{requested: 1, want: 1, title: "Vacancy B"},
		{requested: 2, want: 2, title: "Vacancy A"},
		{requested: 3, want: 2, title: "Vacancy A"},
		{requested: 100, want: 2, title: "Vacancy A"},
	}
	for _, tc := range cases {
		page, err := p.Render(context.Background(), tc.requested)
		if err != nil {
			t.Fatalf("render %d: %v", tc.requested, err)
		}
		if page.Index != tc.want || page.Vacancy.Title != tc.title {
			t.Fatalf("page %d: expected index %d %q, got %d %q", tc.requested, tc.want, tc.title, page.Index, page.Vacancy.Title)
		}
		if page.TotalPages != 3 || page.TotalCount != 3 {
			t.Fatalf("expected 3 pages, got %d/%d", page.TotalPages, page.TotalCount)
		}
	}
}

func TestControls(t *testing.T) {
	first := Controls(0, 3)
	if len(first) != 2 || len(first[0]) != 2 {
		t.Fatalf("unexpected first page controls: %+v", first)
	}
	if first[0][0].Kind != ControlIndicator || first[0][0].Label != "1/3" || first[0][0].Payload != PayloadCurrent {
		t.Fatalf("unexpected indicator: %+v", first[0][0])
	}
	if first[0][1].Kind != ControlNext || first[0][1].Payload != "page_1" {
		t.Fatalf("unexpected next: %+v", first[0][1])
	}
	if first[1][0].Kind != ControlClose || first[1][0].Payload != PayloadClose {
		t.Fatalf("unexpected close: %+v", first[1][0])
	}

	middle := Controls(1, 3)
	if len(middle[0]) != 3 || middle[0][0].Payload != "page_0" || middle[0][2].Payload != "page_2" {
		t.Fatalf("unexpected middle controls: %+v", middle[0])
	}

	last := Controls(2, 3)
	if len(last[0]) != 2 || last[0][0].Kind != ControlPrev || last[0][1].Label != "3/3" {
		t.Fatalf("unexpected last controls: %+v", last[0])
	}

	single := Controls(0, 1)
	if len(single[0]) != 1 || single[0][0].Kind != ControlIndicator {
		t.Fatalf("single page must only have indicator: %+v", single[0])
	}
}

type shrinkingRepo struct {
	board.VacancyRepository
}

func (shrinkingRepo) CountVacancies(context.Context) (int, error) { return 2, nil }

func (shrinkingRepo) ListVacancies(context.Context, int, int) ([]board.Vacancy, error) {
	return nil, nil
}

func TestRenderMissing(t *testing.T) {
	page, err := NewPresenter(shrinkingRepo{}).Render(context.Background(), 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !page.Missing || page.Empty {
		t.Fatalf("expected missing page, got %+v", page)
	}
}

func TestParsePayload(t *testing.T) {
	action, page, err := ParsePayload("page_12")
	if err != nil || action != ActionPage || page != 12 {
		t.Fatalf("unexpected page payload: %v %d %v", action, page, err)
	}
	if action, _, err := ParsePayload("current_page"); err != nil || action != ActionCurrent {
		t.Fatalf("unexpected current payload: %v %v", action, err)
	}
	if action, _, err := ParsePayload("close"); err != nil || action != ActionClose {
		t.Fatalf("unexpected close payload: %v %v", action, err)
	}
	for _, bad := range []string{"page_x", "noop", ""} {
		if _, _, err := ParsePayload(bad); !errors.Is(err, ErrUnsupportedPayload) {
			t.Fatalf("expected unsupported payload for %q, got %v", bad, err)
		}
	}
}

func TestFormatVacancyEscapesHTML(t *testing.T) {
	text := FormatVacancy(board.Vacancy{
		Title:       "Go <Senior>",
		Description: "A & B",
		Salary:      "100k",
		Location:    "Remote",
		Contact:     "@acme_hr",
	}, 2, 5)
	for _, want := range []string{
		"📌 <b>Go &lt;Senior&gt;</b>",
		"💰 Зарплата: 100k",
		"📍 Локация: Remote",
		"📝 Описание:\nA &amp; B",
		"📞 Контакт: @acme_hr",
		"Вакансия 2 из 5",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}
