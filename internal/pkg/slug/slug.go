package slug

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet for random suffixes (62 chars: 0-9, a-z, A-Z)
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// maxSuffixAttempts caps the numeric suffix search before falling back to a
// random token.
const maxSuffixAttempts = 50

// accentMap folds accented characters onto their ASCII counterparts. Covers
// the Portuguese set used in article titles plus common Latin-1 accents.
var accentMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
}

// Make derives a URL-safe slug from a title: lowercase, accents folded to
// ASCII, every other non-alphanumeric run collapsed to a single hyphen.
func Make(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lowered))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range lowered {
		if folded, ok := accentMap[r]; ok {
			r = folded
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(slug string) (bool, error)

// MakeUnique derives a slug from the title and resolves collisions by
// appending -2, -3, ... until the slug is free. After maxSuffixAttempts it
// switches to a random base62 token so pathological title sets cannot loop
// forever. An empty derivation (all-symbol title) starts from a random token.
func MakeUnique(title string, exists ExistsFunc) (string, error) {
	base := Make(title)
	if base == "" {
		token, err := randomToken(8)
		if err != nil {
			return "", err
		}
		base = token
	}

	taken, err := exists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 2; i <= maxSuffixAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	for {
		token, err := randomToken(6)
		if err != nil {
			return "", err
		}
		candidate := base + "-" + token
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// randomToken creates a cryptographically random base62 string.
// Rejection sampling avoids modulo bias; 248 is the largest multiple of 62
// below 256.
func randomToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid token length: %d", length)
	}

	const maxRandomByte = 248

	token := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			token[written] = alphabet[int(b)%len(alphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(token), nil
}
