package wizard

import "time"

// Step обозначает текущий шаг диалога пользователя.
type Step string

const (
	StepIdle                Step = "idle"
	StepAwaitingCompanyName Step = "awaiting_company_name"
	StepAwaitingContact     Step = "awaiting_contact"
	StepAwaitingTitle       Step = "awaiting_title"
	StepAwaitingDescription Step = "awaiting_description"
	StepAwaitingSalary      Step = "awaiting_salary"
	StepAwaitingLocation    Step = "awaiting_location"
)

// Kind определяет, к какому мастеру относится шаг.
type Kind string

const (
	KindNone                Kind = ""
	KindCompanyRegistration Kind = "company_registration"
	KindVacancy             Kind = "vacancy"
)

func (s Step) Kind() Kind {
	switch s {
	case StepAwaitingCompanyName, StepAwaitingContact:
		return KindCompanyRegistration
	case StepAwaitingTitle, StepAwaitingDescription, StepAwaitingSalary, StepAwaitingLocation:
		return KindVacancy
	default:
		return KindNone
	}
}

// Field возвращает поле формы, которое заполняется на этом шаге.
func (s Step) Field() Field {
	switch s {
	case StepAwaitingCompanyName:
		return FieldCompanyName
	case StepAwaitingContact:
		return FieldContact
	case StepAwaitingTitle:
		return FieldTitle
	case StepAwaitingDescription:
		return FieldDescription
	case StepAwaitingSalary:
		return FieldSalary
	case StepAwaitingLocation:
		return FieldLocation
	default:
		return ""
	}
}

// Form накапливает ответы до финального шага мастера.
type Form struct {
	CompanyName string `json:"company_name,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Salary      string `json:"salary,omitempty"`
}

type State struct {
	Step      Step      `json:"step"`
	Form      Form      `json:"form"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s State) Active() bool {
	return s.Step.Kind() != KindNone
}

func idleState() State {
	return State{Step: StepIdle}
}
