package board

import "context"

// UserRepository хранит пользователей бота.
type UserRepository interface {
	SaveUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id int64) (User, error)
}

// VacancyRepository хранит вакансии. Изменение и удаление не поддерживаются.
type VacancyRepository interface {
	CreateVacancy(ctx context.Context, vacancy Vacancy) (int64, error)
	ListVacancies(ctx context.Context, limit, offset int) ([]Vacancy, error)
	CountVacancies(ctx context.Context) (int, error)
}

// Gateway объединяет оба хранилища.
type Gateway interface {
	UserRepository
	VacancyRepository
}
