// Package export writes computed quotes as downloadable files.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const maxClientSegment = 100

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// unsafeChars matches anything other than letters, digits, hyphen and underscore.
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	// separatorRun matches runs of separators that contain at least one replaced character.
	separatorRun = regexp.MustCompile(`[-_]*_[-_]*`)
)

// SanitizeClientName turns a client name into a file name and object key segment. Whitespace
// runs become hyphens; any other character outside letters, digits, '-' and '_' becomes '_'.
func SanitizeClientName(name string) string {
	s := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-")
	s = unsafeChars.ReplaceAllString(s, "_")
	s = separatorRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_-")
	if r := []rune(s); len(r) > maxClientSegment {
		s = strings.Trim(string(r[:maxClientSegment]), "_-")
	}
	if s == "" {
		return "Client"
	}
	return s
}

// FileName builds "Ontop-Quote-<client>-<YYYY-MM-DD>.<ext>" from a sanitized client name.
func FileName(clientName string, at time.Time, ext string) string {
	return fmt.Sprintf("Ontop-Quote-%s-%s.%s", SanitizeClientName(clientName), at.Format("2006-01-02"), ext)
}
