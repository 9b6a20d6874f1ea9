package jsonld

import "strings"

const mailtoPrefix = "mailto:"

// NormalizeEmail trims the address, strips a case-insensitive "mailto:"
// prefix and surrounding angle brackets. Letter case is preserved.
func NormalizeEmail(email string) string {
	e := strings.TrimSpace(email)
	if len(e) >= len(mailtoPrefix) && strings.EqualFold(e[:len(mailtoPrefix)], mailtoPrefix) {
		e = e[len(mailtoPrefix):]
	}
	if len(e) >= 2 && strings.HasPrefix(e, "<") && strings.HasSuffix(e, ">") {
		e = strings.TrimSpace(e[1 : len(e)-1])
	}
	return e
}
