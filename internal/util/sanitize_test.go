package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestUploadFilename(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "salon.jpg", want: "salon.jpg"},
		{name: "invalid characters", in: ` plan<2026>?.pdf `, want: "plan_2026__.pdf"},
		{name: "directories dropped", in: "/home/awa/photos/facade.png", want: "facade.png"},
		{name: "windows directories dropped", in: `C:\Users\awa\cuisine.webp`, want: "cuisine.webp"},
		{name: "hidden made visible", in: ".env", want: "env"},
		{name: "empty", in: "   ", want: fallbackFilename},
		{name: "parent", in: "..", want: fallbackFilename},
		{name: "reserved device", in: "CON.txt", want: "_CON.txt"},
		{name: "zero width stripped", in: "vue\u200b-mer.jpg", want: "vue-mer.jpg"},
		{name: "control stripped", in: "a\x00b\x07.png", want: "ab.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, UploadFilename(tc.in))
		})
	}
}

func TestUploadFilenameTruncatesByRunes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 300) + ".jpg"
	got := UploadFilename(long)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, 255, utf8.RuneCountInString(got))
}
