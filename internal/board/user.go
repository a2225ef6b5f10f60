package board

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleCompany   Role = "company"
	RoleRecruiter Role = "recruiter"
)

// ParseRole нормализует строковое значение роли из хранилища.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleCompany:
		return RoleCompany, true
	case RoleRecruiter:
		return RoleRecruiter, true
	default:
		return "", false
	}
}

// User описывает зарегистрированного пользователя бота. Повторная регистрация
// полностью перезаписывает запись.
type User struct {
	ID          int64
	Username    string
	Role        Role
	CompanyName string
	Contact     string
	CreatedAt   time.Time
}

func (u User) IsCompany() bool {
	return u.Role == RoleCompany
}

func (u User) IsRecruiter() bool {
	return u.Role == RoleRecruiter
}

// ErrUserNotFound сообщает, что пользователь еще не зарегистрирован.
var ErrUserNotFound = errors.New("user not found")
