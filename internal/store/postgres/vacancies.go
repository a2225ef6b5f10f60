package postgres

import (
	"context"
	"database/sql"
	"time"

	"jobbot/internal/board"
	"jobbot/internal/common"
)

// VacancyStore хранит вакансии в Postgres.
type VacancyStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewVacancyStore(db *sql.DB) *VacancyStore {
	return &VacancyStore{db: db, clock: time.Now}
}

func (s *VacancyStore) CreateVacancy(ctx context.Context, v board.Vacancy) (int64, error) {
	const query = `
		INSERT INTO vacancies (company_id, title, description, salary, location, contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock()
	}
	var id int64
	if err := s.db.QueryRowContext(ctx, query, v.CompanyID, v.Title, v.Description, v.Salary, v.Location, v.Contact, board.FormatTimestamp(createdAt)).Scan(&id); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to create vacancy", err)
	}
	return id, nil
}

func (s *VacancyStore) ListVacancies(ctx context.Context, limit, offset int) ([]board.Vacancy, error) {
	const query = `
		SELECT id, company_id, title, description, salary, location, contact, created_at
		FROM vacancies
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list vacancies", err)
	}
	defer rows.Close()
	var items []board.Vacancy
	for rows.Next() {
		var v board.Vacancy
		var createdAt string
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Title, &v.Description, &v.Salary, &v.Location, &v.Contact, &createdAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan vacancy", err)
		}
		if ts, err := board.ParseTimestamp(createdAt); err == nil {
			v.CreatedAt = ts
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list vacancies", err)
	}
	return items, nil
}

func (s *VacancyStore) CountVacancies(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vacancies`).Scan(&count); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count vacancies", err)
	}
	return count, nil
}
