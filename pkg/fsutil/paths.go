package fsutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Characters that are invalid in file names on at least one supported platform.
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	nonASCIIRuns     = regexp.MustCompile(`[^\x00-\x7F]+`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
)

// SanitizeFileName strips characters that cannot appear in file names. This is
// the minimal sanitization applied to display file names that creators
// uploaded themselves.
func SanitizeFileName(name string) string {
	s := invalidNameChars.ReplaceAllString(name, "")
	return strings.TrimRight(s, ". ")
}

// SanitizeNameASCII heavily sanitizes a name for use as a directory component.
// Creator and product names can have any length and use any kind of wacky
// unicode characters, so stylized characters are normalized to their plain
// forms, the rest of the non-ASCII range is dropped, and redundant whitespace
// is collapsed.
func SanitizeNameASCII(name string) string {
	s := norm.NFKC.String(name)
	s = nonASCIIRuns.ReplaceAllString(s, " ")
	s = SanitizeFileName(s)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
