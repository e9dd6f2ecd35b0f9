package util

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

const fallbackFilename = "media"

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// UploadFilename turns a local file name into the name announced in a
// multipart part. Directory components are dropped, and the result is never
// empty, hidden or a reserved device name.
func UploadFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return fallbackFilename
	}

	var b strings.Builder
	b.Grow(len(base))
	for _, r := range base {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(b.String(), "_"))
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return fallbackFilename
	}

	// Truncate by runes so multi-byte characters stay intact.
	if runes := []rune(cleaned); len(runes) > 255 {
		cleaned = string(runes[:255])
	}

	stem := cleaned
	if idx := strings.Index(cleaned, "."); idx >= 0 {
		stem = cleaned[:idx]
	}
	if _, reserved := reservedNames[strings.ToUpper(stem)]; reserved {
		cleaned = "_" + cleaned
	}

	return cleaned
}
