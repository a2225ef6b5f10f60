package board

import "time"

// Vacancy описывает опубликованную вакансию. Contact копируется из профиля компании
// в момент создания и позже не обновляется.
type Vacancy struct {
	ID          int64
	CompanyID   int64
	Title       string
	Description string
	Salary      string
	Location    string
	Contact     string
	CreatedAt   time.Time
}

// TimestampLayout задает формат ISO-8601 с фиксированной точностью, при котором
// лексикографический порядок совпадает с хронологическим.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Parse(time.RFC3339Nano, value)
	}
	return parsed, nil
}
