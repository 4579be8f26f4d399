package resolver

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanDigits strips everything but ASCII digits. Used for cpf and cnpj,
// which exports write with or without punctuation.
func CleanDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatName collapses whitespace and capitalizes every token: the first
// letter is upper-cased and the rest of the token lower-cased, so
// "  JOSÉ-MARIA   D'ÁVILA " -> "José-maria D'ávila".
func FormatName(name string) string {
	tokens := strings.FieldsFunc(name, unicode.IsSpace)
	if len(tokens) == 0 {
		return ""
	}
	upper := cases.Upper(language.BrazilianPortuguese)
	lower := cases.Lower(language.BrazilianPortuguese)
	for i, token := range tokens {
		_, size := utf8.DecodeRuneInString(token)
		tokens[i] = upper.String(token[:size]) + lower.String(token[size:])
	}
	return strings.Join(tokens, " ")
}
