package question

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const MaxContentLength = 1000

var (
	slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	reservedSlugs = map[string]bool{
		"boards":  true,
		"health":  true,
		"metrics": true,
		"swagger": true,
		"ws":      true,
	}
)

func ValidateBoard(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidBoard, slug)
	}
	if reservedSlugs[strings.ToLower(slug)] {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidBoard, slug)
	}
	return nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content is empty", ErrInvalidContent)
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return "", fmt.Errorf("%w: content must be at most %d characters, got %d", ErrInvalidContent, MaxContentLength, n)
	}
	return content, nil
}
