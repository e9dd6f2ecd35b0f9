package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsImageExtension(t *testing.T) {
	t.Parallel()

	require.True(t, IsImageExtension(".png"))
	require.True(t, IsImageExtension(".jfif"))
	require.True(t, IsImageExtension(" .JPEG "))
	require.False(t, IsImageExtension(".pdf"))
	require.False(t, IsImageExtension(""))
}

func TestIsPreviewMIME(t *testing.T) {
	t.Parallel()

	require.True(t, IsPreviewMIME("image/jpeg"))
	require.True(t, IsPreviewMIME("IMAGE/PNG; charset=binary"))
	require.False(t, IsPreviewMIME("image/svg+xml"))
	require.False(t, IsPreviewMIME("application/pdf"))
}

func TestMatchesAccept(t *testing.T) {
	t.Parallel()

	accept := []string{"image/*", ".pdf", ".doc", ".docx"}

	require.True(t, MatchesAccept(accept, "facade.jpg", "image/jpeg"))
	require.True(t, MatchesAccept(accept, "plan.PDF", "application/octet-stream"))
	require.True(t, MatchesAccept(accept, "photo", "image/webp"))
	require.True(t, MatchesAccept(accept, "photo.heic", ""))
	require.False(t, MatchesAccept(accept, "script.exe", "application/x-msdownload"))
	require.False(t, MatchesAccept(accept, "notes.txt", "text/plain; charset=utf-8"))
	require.True(t, MatchesAccept([]string{"text/plain"}, "notes.txt", "text/plain; charset=utf-8"))
	require.True(t, MatchesAccept(nil, "anything.bin", ""))
}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	require.Equal(t, "application/pdf", DetectMIME([]byte("%PDF-1.7\n")))
	require.Equal(t, "image/png", DetectMIME([]byte("\x89PNG\r\n\x1a\n0000")))
}
