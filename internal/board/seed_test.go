package board

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeVacancyRepo struct {
	items []Vacancy
}

func (r *fakeVacancyRepo) CreateVacancy(ctx context.Context, v Vacancy) (int64, error) {
	v.ID = int64(len(r.items) + 1)
	r.items = append(r.items, v)
	return v.ID, nil
}

func (r *fakeVacancyRepo) ListVacancies(ctx context.Context, limit, offset int) ([]Vacancy, error) {
	return nil, nil
}

func (r *fakeVacancyRepo) CountVacancies(ctx context.Context) (int, error) {
	return len(r.items), nil
}

func TestDefaultSeedHasReservedCompanies(t *testing.T) {
	items, err := DefaultSeed()
	if err != nil {
		t.Fatalf("default seed: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 seed vacancies, got %d", len(items))
	}
	for i, item := range items {
		want := int64(999001 + i)
		if item.CompanyID != want {
			t.Fatalf("expected company id %d, got %d", want, item.CompanyID)
		}
		if item.Contact == "" || item.Salary == "" || item.Location == "" {
			t.Fatalf("seed vacancy %q is incomplete", item.Title)
		}
	}
}

func TestSeedOnlyIntoEmptyStore(t *testing.T) {
	repo := &fakeVacancyRepo{}
	items, _ := DefaultSeed()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	inserted, err := Seed(context.Background(), repo, items, now)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if inserted != 5 || len(repo.items) != 5 {
		t.Fatalf("expected 5 inserted, got %d", inserted)
	}
	if !repo.items[0].CreatedAt.Equal(now) {
		t.Fatalf("expected seed timestamp %v, got %v", now, repo.items[0].CreatedAt)
	}

	inserted, err = Seed(context.Background(), repo, items, now)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if inserted != 0 || len(repo.items) != 5 {
		t.Fatalf("expected no inserts into non-empty store, got %d", inserted)
	}
}

func TestLoadSeedFileRejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("vacancies:\n  - title: Orphan\n"), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := LoadSeedFile(path); err == nil {
		t.Fatalf("expected error for vacancy without company_id")
	}
}

func TestTimestampRoundTripKeepsOrder(t *testing.T) {
	early := time.Date(2024, 5, 1, 10, 0, 0, 100000000, time.UTC)
	late := early.Add(20 * time.Millisecond)
	if FormatTimestamp(early) >= FormatTimestamp(late) {
		t.Fatalf("expected lexical order to follow time: %s vs %s", FormatTimestamp(early), FormatTimestamp(late))
	}
	parsed, err := ParseTimestamp(FormatTimestamp(late))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(late) {
		t.Fatalf("expected %v, got %v", late, parsed)
	}
}
