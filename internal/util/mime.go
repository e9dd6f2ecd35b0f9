package util

import (
	"net/http"
	"path/filepath"
	"strings"
)

// DetectMIME sniffs the content type from the first bytes of content.
func DetectMIME(content []byte) string {
	if len(content) > 512 {
		content = content[:512]
	}
	return http.DetectContentType(content)
}

func IsImageExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".png", ".apng", ".jpg", ".jpeg", ".jpe", ".jfif", ".pjpeg", ".pjp", ".gif", ".webp", ".bmp", ".dib", ".tiff", ".tif", ".svg", ".svgz", ".ico", ".avif", ".heic", ".heif":
		return true
	default:
		return false
	}
}

// IsPreviewMIME reports whether a preview thumbnail can be decoded for the
// type.
func IsPreviewMIME(mimeType string) bool {
	switch baseMIME(mimeType) {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff":
		return true
	default:
		return false
	}
}

// MatchesAccept checks a file against an accept list such as
// "image/*,.pdf,.doc": an extension, an exact MIME type or a MIME group.
func MatchesAccept(accepted []string, filename string, mimeType string) bool {
	if len(accepted) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	mime := baseMIME(mimeType)
	group := ""
	if idx := strings.Index(mime, "/"); idx > 0 {
		group = mime[:idx] + "/*"
	}

	for _, raw := range accepted {
		entry := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case entry == "":
			continue
		case strings.HasPrefix(entry, "."):
			if ext != "" && entry == ext {
				return true
			}
		case entry == mime && mime != "":
			return true
		case group != "" && entry == group:
			return true
		case entry == "image/*" && mime == "" && IsImageExtension(ext):
			return true
		}
	}

	return false
}

func baseMIME(mimeType string) string {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(cleaned, ";"); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}
	return cleaned
}
