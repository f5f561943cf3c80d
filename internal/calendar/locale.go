package calendar

import (
	"fmt"
	"strings"
)

// ParseCountryLocale normalizes a country code and an optional locale.
// The country may carry the locale in combined form, e.g. "ru:en".
// The locale defaults to the country.
func ParseCountryLocale(country, locale string) (string, string, error) {
	country = strings.ToLower(strings.TrimSpace(country))
	locale = strings.ToLower(strings.TrimSpace(locale))

	if c, l, ok := strings.Cut(country, ":"); ok {
		if locale != "" && locale != l {
			return "", "", fmt.Errorf("%w: locale %q conflicts with %q", ErrInvalidConfiguration, locale, country)
		}
		country, locale = c, l
		if locale == "" {
			return "", "", fmt.Errorf("%w: empty locale in %q", ErrInvalidConfiguration, country+":")
		}
	}

	if !validCode(country) {
		return "", "", fmt.Errorf("%w: invalid country code %q", ErrInvalidConfiguration, country)
	}
	if locale == "" {
		locale = country
	}
	if !validCode(locale) {
		return "", "", fmt.Errorf("%w: invalid locale code %q", ErrInvalidConfiguration, locale)
	}

	return country, locale, nil
}

func validCode(code string) bool {
	if len(code) < 2 || len(code) > 3 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
