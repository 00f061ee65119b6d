package amount

import "strings"

// AddThousandSeparator inserts commas into the integer part of a plain
// numeric string: "-1234567.5" becomes "-1,234,567.5". Strings that are not
// plain numbers are returned unchanged.
func AddThousandSeparator(s string) string {
	if !isPlainNumber(s) {
		return s
	}

	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	b.Grow(len(sign) + len(intPart) + len(intPart)/3 + len(frac))
	b.WriteString(sign)

	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}

// RemoveThousandSeparator strips every comma.
func RemoveThousandSeparator(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// isPlainNumber accepts an optional sign, digits and at most one dot with
// digits on at least one side.
func isPlainNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
