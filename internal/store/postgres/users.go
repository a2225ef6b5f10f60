package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobbot/internal/board"
	"jobbot/internal/common"
)

// UserStore хранит пользователей бота в Postgres.
type UserStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, clock: time.Now}
}

func (s *UserStore) SaveUser(ctx context.Context, user board.User) error {
	const query = `
		INSERT INTO users (user_id, username, user_type, company_name, contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET username = EXCLUDED.username,
			user_type = EXCLUDED.user_type,
			company_name = EXCLUDED.company_name,
			contact = EXCLUDED.contact,
			created_at = EXCLUDED.created_at
	`
	createdAt := board.FormatTimestamp(s.clock())
	if _, err := s.db.ExecContext(ctx, query, user.ID, nullString(user.Username), string(user.Role), nullString(user.CompanyName), nullString(user.Contact), createdAt); err != nil {
		return common.NewError(common.CodeInternal, "failed to save user", err)
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, id int64) (board.User, error) {
	const query = `
		SELECT user_id, username, user_type, company_name, contact, created_at
		FROM users
		WHERE user_id = $1
	`
	var (
		user        board.User
		username    sql.NullString
		role        string
		companyName sql.NullString
		contact     sql.NullString
		createdAt   string
	)
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &username, &role, &companyName, &contact, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return board.User{}, common.NewError(common.CodeNotFound, "user not found", board.ErrUserNotFound)
		}
		return board.User{}, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	parsedRole, ok := board.ParseRole(role)
	if !ok {
		return board.User{}, common.NewError(common.CodeInternal, "unknown user role "+role, nil)
	}
	user.Role = parsedRole
	user.Username = username.String
	user.CompanyName = companyName.String
	user.Contact = contact.String
	if ts, err := board.ParseTimestamp(createdAt); err == nil {
		user.CreatedAt = ts
	}
	return user, nil
}
