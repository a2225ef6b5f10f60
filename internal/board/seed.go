package board

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed_vacancies.yaml
var defaultSeed []byte

type seedDocument struct {
	Vacancies []seedVacancy `yaml:"vacancies"`
}

type seedVacancy struct {
	CompanyID   int64  `yaml:"company_id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Salary      string `yaml:"salary"`
	Location    string `yaml:"location"`
	Contact     string `yaml:"contact"`
}

// DefaultSeed возвращает встроенные демонстрационные вакансии.
func DefaultSeed() ([]Vacancy, error) {
	return parseSeed(defaultSeed)
}

// LoadSeedFile читает демонстрационные вакансии из YAML файла.
func LoadSeedFile(path string) ([]Vacancy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(b)
}

func parseSeed(b []byte) ([]Vacancy, error) {
	var doc seedDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}
	items := make([]Vacancy, 0, len(doc.Vacancies))
	for i, v := range doc.Vacancies {
		if v.CompanyID == 0 || strings.TrimSpace(v.Title) == "" {
			return nil, fmt.Errorf("seed vacancy %d: company_id and title are required", i)
		}
		items = append(items, Vacancy{
			CompanyID:   v.CompanyID,
			Title:       v.Title,
			Description: v.Description,
			Salary:      v.Salary,
			Location:    v.Location,
			Contact:     v.Contact,
		})
	}
	return items, nil
}

// Seed добавляет вакансии только в пустое хранилище и возвращает число
// вставленных записей.
func Seed(ctx context.Context, repo VacancyRepository, items []Vacancy, now time.Time) (int, error) {
	count, err := repo.CountVacancies(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for i, item := range items {
		item.CreatedAt = now
		if _, err := repo.CreateVacancy(ctx, item); err != nil {
			return i, fmt.Errorf("seed vacancy %q: %w", item.Title, err)
		}
	}
	return len(items), nil
}
