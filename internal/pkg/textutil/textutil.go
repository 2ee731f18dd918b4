package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean приводит строку к NFC и схлопывает пробелы.
// Выгрузки из Excel на macOS часто содержат хангыль в NFD, без NFC такие метки не совпадают с эталонными.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// Join очищает части и склеивает непустые через один пробел
func Join(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := Clean(p); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return strings.Join(cleaned, " ")
}
