package validation

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrInvalidArchiveName = errors.New("invalid archive name")
	ErrPathTraversal      = errors.New("path traversal detected")
	ErrInvalidCharacters  = errors.New("invalid characters in input")
	ErrEmptyPath          = errors.New("path is required")
)

var ValidArchiveNameRegex = regexp.MustCompile(`^[^/\\:*?"<>|\x00-\x1f]+$`)

// ValidateArchiveName checks the base name of an archive path.
func ValidateArchiveName(name string) error {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return ErrInvalidArchiveName
	}

	if len(base) > 255 {
		return ErrInvalidArchiveName
	}

	if !ValidArchiveNameRegex.MatchString(base) {
		return ErrInvalidCharacters
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	reserved := []string{"con", "prn", "aux", "nul"}
	for _, r := range reserved {
		if strings.EqualFold(stem, r) {
			return ErrInvalidArchiveName
		}
	}

	return nil
}

// SanitizePath resolves rel below basePath and rejects anything that would land
// outside of it. An empty basePath disables confinement and returns rel cleaned.
func SanitizePath(basePath, rel string) (string, error) {
	if rel == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(rel, 0) {
		return "", ErrInvalidCharacters
	}

	if basePath == "" {
		return filepath.Clean(rel), nil
	}

	target := rel
	if !filepath.IsAbs(target) {
		target = filepath.Join(basePath, rel)
	}
	cleanPath := filepath.Clean(target)

	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", err
	}

	relPath, err := filepath.Rel(absBasePath, absPath)
	if err != nil {
		return "", ErrPathTraversal
	}

	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	return absPath, nil
}
