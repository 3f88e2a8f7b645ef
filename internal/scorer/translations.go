package scorer

import (
	"fmt"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Translations resolves feedback message IDs such as `warnings.pwned`
// into display strings for a single language
type Translations struct {
	language  language.Tag
	localizer *i18n.Localizer
}

// NewTranslations builds a localizer from `messages`, a map of section
// to message key to text; message IDs are `<section>.<key>`
func NewTranslations(lang string, messages map[string]map[string]string) (*Translations, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to parse language[%s]: %w", lang, err)
	}
	bundle := i18n.NewBundle(tag)
	i18nMessages := []*i18n.Message{}
	sections := make([]string, 0, len(messages))
	for section := range messages {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	for _, section := range sections {
		for key, text := range messages[section] {
			i18nMessages = append(i18nMessages, &i18n.Message{
				ID:    section + "." + key,
				Other: text,
			})
		}
	}
	if err := bundle.AddMessages(tag, i18nMessages...); err != nil {
		return nil, fmt.Errorf("failed to add %v messages for language[%s]: %w", len(i18nMessages), lang, err)
	}
	return &Translations{
		language:  tag,
		localizer: i18n.NewLocalizer(bundle, tag.String()),
	}, nil
}

// T returns the translation of `messageId`, or the ID itself when no
// translation exists
func (t *Translations) T(messageId string) string {
	if t == nil || t.localizer == nil {
		return messageId
	}
	message, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: messageId})
	if err != nil {
		return messageId
	}
	return message
}

func (t *Translations) Language() string {
	if t == nil {
		return ""
	}
	return t.language.String()
}
