// Package i18n translates user-facing messages for the languages the grid
// ships with. English strings are the message keys.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"taskgrid/internal/datemask"
	"taskgrid/internal/storage/sqlite"
	"taskgrid/internal/tasklist"
)

// Greeting is the key of the hello dialog message. It takes the recipient.
const Greeting = "Hello %s"

var supported = []language.Tag{language.English, language.Russian}

var translations = map[language.Tag]map[string]string{
	language.Russian: {
		datemask.MsgInvalidFormat:    "Некорректный формат даты. Используйте ДД.ММ.ГГГГ.",
		datemask.MsgInvalidMonth:     "Месяц должен быть от 1 до 12.",
		datemask.MsgInvalidDay:       "День должен быть от 1 до 31.",
		tasklist.MsgTaskNameRequired: "Название задачи не может быть пустым.",
		sqlite.MsgUnknownTaskType:    "Неизвестный тип задачи.",
		Greeting:                     "Привет, %s!",
	},
}

// Translator picks a language from an Accept-Language header and renders
// messages in it.
type Translator struct {
	cat     *catalog.Builder
	matcher language.Matcher
}

// New builds the message catalog.
func New() *Translator {
	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			// Keys and messages are static, SetString only fails on bad input.
			_ = cat.SetString(tag, key, msg)
		}
	}
	return &Translator{
		cat:     cat,
		matcher: language.NewMatcher(supported),
	}
}

// Language returns the best supported language for an Accept-Language value.
// English is used when nothing matches.
func (t *Translator) Language(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// Printer returns a printer for the language selected by acceptLanguage.
func (t *Translator) Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(t.Language(acceptLanguage), message.Catalog(t.cat))
}

// Translate renders key in the selected language. Unknown keys are returned
// unchanged.
func (t *Translator) Translate(acceptLanguage, key string, args ...any) string {
	return t.Printer(acceptLanguage).Sprintf(key, args...)
}
