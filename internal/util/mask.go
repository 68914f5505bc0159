package util

import "strings"

// MaskLoginID oculta un login id para los logs de auditoría.
// Emails: primera letra del usuario y del primer label del dominio.
// Otros ids: primera y última letra, o "***" si es muy corto.
func MaskLoginID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	user, dom, isEmail := strings.Cut(s, "@")
	if !isEmail || user == "" {
		r := []rune(s)
		if len(r) <= 3 {
			return "***"
		}
		return string(r[0]) + "…" + string(r[len(r)-1])
	}
	label, rest, _ := strings.Cut(dom, ".")
	out := keepFirst(user) + "@" + keepFirst(label)
	if rest != "" {
		out += "." + rest
	}
	return out
}

// keepFirst deja la primera runa seguida de "…" cuando hay más de una.
func keepFirst(s string) string {
	r := []rune(s)
	if len(r) <= 1 {
		return s
	}
	return string(r[0]) + "…"
}
