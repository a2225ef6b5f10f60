package telegram

import (
	"jobbot/internal/pagination"
	"jobbot/internal/wizard"
)

// Тексты кнопок меню; роутер сравнивает входящий текст с ними точно.
const (
	ButtonCompany   = "👔 Я компания (нанимаю)"
	ButtonRecruiter = "🔍 Я рекрутер (ищу вакансии)"
	ButtonPublish   = "➕ Опубликовать вакансию"
	ButtonMine      = "📋 Мои вакансии"
	ButtonBrowse    = "📝 Смотреть вакансии"
	ButtonMainMenu  = "🔙 Главное меню"
	ButtonCancel    = wizard.CancelInput
)

func replyKeyboard(rows ...string) *ReplyKeyboardMarkup {
	keyboard := make([][]KeyboardButton, 0, len(rows))
	for _, text := range rows {
		keyboard = append(keyboard, []KeyboardButton{{Text: text}})
	}
	return &ReplyKeyboardMarkup{Keyboard: keyboard, ResizeKeyboard: true}
}

func startKeyboard() *ReplyKeyboardMarkup {
	return replyKeyboard(ButtonCompany, ButtonRecruiter)
}

func companyMenu() *ReplyKeyboardMarkup {
	return replyKeyboard(ButtonPublish, ButtonMine, ButtonMainMenu)
}

func recruiterMenu() *ReplyKeyboardMarkup {
	return replyKeyboard(ButtonBrowse, ButtonMainMenu)
}

func cancelKeyboard() *ReplyKeyboardMarkup {
	return replyKeyboard(ButtonCancel)
}

func paginationKeyboard(rows [][]pagination.Control) *InlineKeyboardMarkup {
	markup := &InlineKeyboardMarkup{InlineKeyboard: make([][]InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, control := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: control.Label, CallbackData: control.Payload})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
