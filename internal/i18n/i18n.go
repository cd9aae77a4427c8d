// Package i18n holds the fixed locale tables for user-facing bot replies.
//
// The locale set is closed: adding a language means adding a table here.
// Lookups never fail; unknown locales resolve to the default and unknown
// keys return the key itself so a miss is visible in chat during development.
package i18n

import "fmt"

// Locale is a supported interface language code.
type Locale string

const (
	RU Locale = "ru"
	EN Locale = "en"
	TR Locale = "tr"
)

// DefaultLocale is used when no user preference is stored and the
// configuration does not override it.
const DefaultLocale = RU

// Supported lists all selectable locales in menu order.
func Supported() []Locale {
	return []Locale{RU, EN, TR}
}

// Label returns the human-readable language name shown on selection buttons.
func Label(l Locale) string {
	switch l {
	case RU:
		return "Русский"
	case EN:
		return "English"
	case TR:
		return "Türkçe"
	}
	return string(l)
}

// Normalize maps an arbitrary stored code to a supported locale,
// falling back to fallback (or DefaultLocale when fallback is invalid).
func Normalize(code string, fallback Locale) Locale {
	switch Locale(code) {
	case RU, EN, TR:
		return Locale(code)
	}
	switch fallback {
	case RU, EN, TR:
		return fallback
	}
	return DefaultLocale
}

// T returns the string for key in the given locale. Missing locales fall
// back to English; missing keys come back as the key itself.
func T(l Locale, key string) string {
	table, ok := strings[l]
	if !ok {
		table = strings[EN]
	}
	if s, ok := table[key]; ok {
		return s
	}
	if s, ok := strings[EN][key]; ok {
		return s
	}
	return key
}

// Tf formats the string for key with fmt verbs.
func Tf(l Locale, key string, args ...any) string {
	return fmt.Sprintf(T(l, key), args...)
}
