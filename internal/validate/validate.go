package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"petcare/internal/domain"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)
	rePhone    = regexp.MustCompile(`^\+?[0-9 ()-]{6,15}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (animal/product/plan ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Username allows letters, digits and @.+-_ up to 150 characters.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Phone accepts up to 15 characters of digits, spaces, dashes and parentheses with an optional leading +.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Text trims s and requires 1..max runes.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > max {
		return "", false
	}
	return s, true
}

// Date accepts YYYY-MM-DD.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}

// Time accepts HH:MM or HH:MM:SS and normalizes to HH:MM.
func Time(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}

func AnimalType(s string) (domain.AnimalType, bool) {
	a := domain.AnimalType(strings.ToLower(strings.TrimSpace(s)))
	return a, a.Valid()
}

func Category(s string) (domain.ProductCategory, bool) {
	c := domain.ProductCategory(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Password enforces a length window and mixed character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// NextPath returns p if it is a same-site absolute path, otherwise "/".
func NextPath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return "/"
	}
	return p
}
