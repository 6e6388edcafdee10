package models

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleThai    Locale = "th"
)

// Text holds one translatable field keyed by locale.
type Text map[Locale]string

// Get returns the value for l, falling back to fallback when l has no entry.
func (t Text) Get(l, fallback Locale) string {
	if v, ok := t[l]; ok && v != "" {
		return v
	}
	return t[fallback]
}
