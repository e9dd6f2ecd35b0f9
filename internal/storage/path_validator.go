package storage

import (
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"immo-client/pkg/apierror"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// KeyValidator maps storage keys onto files directly under a root directory.
type KeyValidator struct {
	rootAbs string
}

func NewKeyValidator(root string) (*KeyValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	return &KeyValidator{rootAbs: rootAbs}, nil
}

func (v *KeyValidator) RootAbs() string {
	return v.rootAbs
}

func (v *KeyValidator) ResolveKey(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", apierror.New("INVALID_KEY", "storage key contains invalid characters", key, http.StatusBadRequest)
	}

	resolved := filepath.Join(v.rootAbs, key)
	if !isWithinRoot(v.rootAbs, resolved) {
		return "", apierror.New("INVALID_KEY", "storage key resolves outside the storage root", key, http.StatusBadRequest)
	}

	return resolved, nil
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return false
	}

	rootWithSeparator := rootAbs + string(filepath.Separator)
	return strings.HasPrefix(candidateAbs, rootWithSeparator)
}
