// Package slugs derives filesystem-safe identifiers from artwork filenames.
package slugs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallback is returned when sanitization strips every rune, so a non-empty
// input always yields a usable slug.
const fallback = "untitled"

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize produces a lowercase, filesystem-safe token from raw: accented
// letters are folded to ASCII, runs of anything outside [a-z0-9] collapse to
// a single hyphen, and leading/trailing hyphens are trimmed. Sanitize is
// idempotent.
func Sanitize(raw string) string {
	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" && raw != "" {
		return fallback
	}
	return slug
}

// FromFilename derives a slug from an uploaded file's name, dropping the
// extension and any derivative suffix left over from earlier processing.
func FromFilename(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	for _, suffix := range []string{"-ANALYSE", "-analyse", "-THUMB", "-thumb"} {
		stem = strings.TrimSuffix(stem, suffix)
	}
	return Sanitize(stem)
}

// UniquePath returns a path under dir based on name that does not already
// exist, appending -1, -2, ... before the extension until it finds a free
// candidate. The caller is expected to create the returned path promptly;
// there is no reservation.
func UniquePath(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); err != nil {
		return candidate
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, counter, ext))
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
