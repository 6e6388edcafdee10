// Package locale resolves request locales and projects bilingual records into
// single-language display records.
package locale

import (
	"golang.org/x/text/language"

	"github.com/mr1hm/go-seaglass-map/internal/models"
)

const Default = models.LocaleEnglish

var Supported = []models.Locale{models.LocaleEnglish, models.LocaleThai}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Thai})

// Parse maps a BCP 47 tag such as "th-TH" to a supported locale.
func Parse(tag string) (models.Locale, bool) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := t.Base()
	l := models.Locale(base.String())
	if !IsSupported(l) {
		return "", false
	}
	return l, true
}

func IsSupported(l models.Locale) bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}
	return false
}

// Resolve returns l when supported, otherwise Default.
func Resolve(l models.Locale) models.Locale {
	if IsSupported(l) {
		return l
	}
	return Default
}

// FromAcceptLanguage picks the best supported locale for an Accept-Language
// header, or fallback when nothing matches.
func FromAcceptLanguage(header string, fallback models.Locale) models.Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}
