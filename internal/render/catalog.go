package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/noah-isme/schedule-bot/internal/models"
)

// Groups renders the list of groups available for registration.
func Groups(groups []models.Group) string {
	if len(groups) == 0 {
		return "Список груп порожній."
	}
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("• <code>%s</code> (ID: <code>%d</code>)", html.EscapeString(g.Name), g.ID))
	}
	return "<b>Список доступних груп:</b>\n\n" + strings.Join(lines, "\n")
}

// SubjectDetails renders every variant of a subject with its infos and teachers.
func SubjectDetails(subject models.SubjectDetails) string {
	parts := []string{fmt.Sprintf("📚 <b>%s (%s)</b>\n", html.EscapeString(subject.Name), html.EscapeString(subject.Abbreviation))}

	if len(subject.Variants) == 0 {
		parts = append(parts, "<i>Детальна інформація відсутня.</i>")
		return strings.Join(parts, "\n")
	}

	for _, variant := range subject.Variants {
		parts = append(parts, fmt.Sprintf("<b>━━━ %s ━━━</b>", html.EscapeString(variant.SubjectType.Name)))

		if len(variant.Infos) > 0 {
			infos := make([]string, 0, len(variant.Infos))
			for _, info := range variant.Infos {
				infos = append(infos, fmt.Sprintf("▫️ <b>%s:</b> %s", html.EscapeString(info.InfoTypeName), html.EscapeString(info.Value)))
			}
			parts = append(parts, strings.Join(infos, "\n"))
		}

		if len(variant.Teachers) == 0 {
			parts = append(parts, "👨‍🏫 <i>Викладачі не призначені.</i>")
		} else {
			teachers := make([]string, 0, len(variant.Teachers))
			for _, t := range variant.Teachers {
				teachers = append(teachers, "• "+html.EscapeString(t.FullName))
			}
			parts = append(parts, "<b>Викладачі:</b>\n"+strings.Join(teachers, "\n"))
		}

		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}

// TeacherDetails renders a teacher card from the infos left after the photo
// has been split off.
func TeacherDetails(teacher models.Teacher, infos []models.TeacherInfo) string {
	parts := []string{fmt.Sprintf("👨‍🏫 <b>%s</b>\n", html.EscapeString(teacher.FullName))}

	if len(infos) == 0 {
		parts = append(parts, "<i>Додаткова інформація відсутня.</i>")
		return strings.Join(parts, "\n")
	}
	for _, info := range infos {
		parts = append(parts, fmt.Sprintf("<b>%s:</b> %s", html.EscapeString(info.InfoTypeName), html.EscapeString(info.Value)))
	}
	return strings.Join(parts, "\n")
}
