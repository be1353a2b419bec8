package handler

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/noah-isme/schedule-bot/internal/models"
	"github.com/noah-isme/schedule-bot/internal/navigation"
)

// Reply keyboard buttons.
const (
	btnSchedule = "🗓 Отримати розклад"
	btnSettings = "⚙️ Налаштування"
	btnSubjects = "📚 Предмети"
	btnTeachers = "👨‍🏫 Вчителі"
	btnAdmin    = "👑 Адмін-панель"
)

// Callback data prefixes.
const (
	cbGroup     = "group:"
	cbRegion    = "region:"
	cbSettings  = "settings:"
	cbTeacher   = "teacher:"
	cbTeachers  = "teachers:"
	cbSubject   = "subject:"
	cbSubjects  = "subjects:"
	cbAdmin     = "admin:"
	cbBroadcast = "bc:"
)

func mainKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSchedule)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSettings)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSubjects), tgbotapi.NewKeyboardButton(btnTeachers)),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnAdmin)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func groupsKeyboard(groups []models.Group) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, g := range groups {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(g.Name, cbGroup+strconv.Itoa(g.ID)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(chunk(buttons, 2)...)
}

func regionsKeyboard(regions []models.Region) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, r := range regions {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(r.Name, cbRegion+strconv.Itoa(r.ID)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(chunk(buttons, 1)...)
}

func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎓 Змінити групу", cbSettings+"change_group")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🌍 Змінити часовий пояс", cbSettings+"change_region")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Закрити", cbSettings+"close")),
	)
}

func teachersKeyboard(teachers []models.Teacher) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, t := range teachers {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(t.FullName, cbTeacher+strconv.Itoa(t.ID)))
	}
	rows := chunk(buttons, 2)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Закрити", cbTeachers+"close")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func teacherDetailsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад до списку", cbTeachers+"back"),
		tgbotapi.NewInlineKeyboardButtonData("❌ Закрити", cbTeachers+"close"),
	))
}

func subjectsKeyboard(subjects []models.Subject) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, s := range subjects {
		data := cbSubject + s.Abbreviation
		if len(data) > navigation.MaxTokenLength {
			continue
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(s.Name, data))
	}
	rows := chunk(buttons, 1)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Закрити", cbSubjects+"close")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func subjectDetailsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад до списку", cbSubjects+"back"),
		tgbotapi.NewInlineKeyboardButtonData("❌ Закрити", cbSubjects+"close"),
	))
}

func adminPanelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📢 Створити розсилку", cbAdmin+"broadcast")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Закрити", cbAdmin+"close")),
	)
}

func broadcastTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🚀 Надіслати зараз", cbBroadcast+"now")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🕒 Запланувати", cbBroadcast+"schedule")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Скасувати", cbBroadcast+"cancel")),
	)
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Скасувати", cbBroadcast+"cancel")),
	)
}

func broadcastConfirmKeyboard(scheduled bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Надіслати", cbBroadcast+"send")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✏️ Змінити текст", cbBroadcast+"edit_text")),
	}
	if scheduled {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🕒 Змінити час", cbBroadcast+"edit_time")))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Скасувати", cbBroadcast+"cancel")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// navigationKeyboard turns affordances into buttons carrying encoded tokens.
func navigationKeyboard(rows [][]navigation.Affordance) tgbotapi.InlineKeyboardMarkup {
	markup := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, a := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, navigation.Encode(a.Token)))
		}
		markup = append(markup, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(markup...)
}

func registrationKeyboard(botUsername string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL("👉 Зареєструватися", "https://t.me/"+botUsername+"?start=register"),
	))
}

func chunk(buttons []tgbotapi.InlineKeyboardButton, size int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		n := size
		if len(buttons) < n {
			n = len(buttons)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[:n]...))
		buttons = buttons[n:]
	}
	return rows
}
