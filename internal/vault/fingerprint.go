package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Fingerprint holds the host traits mixed into the vault key.
type Fingerprint struct {
	UserAgent      string
	Language       string
	Hostname       string
	Platform       string
	TimezoneOffset int
}

// CurrentFingerprint collects the traits of the running host.
func CurrentFingerprint(userAgent string) Fingerprint {
	hostname, _ := os.Hostname()
	_, offset := time.Now().Zone()

	language := os.Getenv("LANG")
	if language == "" {
		language = os.Getenv("LC_ALL")
	}

	return Fingerprint{
		UserAgent:      userAgent,
		Language:       language,
		Hostname:       hostname,
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		TimezoneOffset: offset / 60,
	}
}

func (f Fingerprint) String() string {
	joined := strings.Join([]string{
		f.UserAgent,
		f.Language,
		f.Hostname,
		f.Platform,
		strconv.Itoa(f.TimezoneOffset),
	}, "|")

	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:16])
}
