package wizard

import (
	"errors"
	"strings"
)

type Field string

const (
	FieldCompanyName Field = "company_name"
	FieldContact     Field = "contact"
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldSalary      Field = "salary"
	FieldLocation    Field = "location"
)

var ErrEmptyInput = errors.New("empty input")

// Validator проверяет ответ пользователя перед сохранением в форму.
type Validator interface {
	Validate(field Field, value string) error
}

type ValidatorFunc func(field Field, value string) error

func (f ValidatorFunc) Validate(field Field, value string) error {
	return f(field, value)
}

// NonEmpty принимает любой непустой текст без изменений.
var NonEmpty = ValidatorFunc(func(_ Field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyInput
	}
	return nil
})
