// Package locale maps participant language preferences onto the languages
// the program supports. This is part of the Functional Core - no I/O, only
// pure functions.
package locale

import "golang.org/x/text/language"

// English is the program default; participants with no stated preference
// receive English content.
const (
	English = "en"
	French  = "fr"
)

var supported = []language.Tag{
	language.English, // first entry is the fallback
	language.French,
}

var codes = []string{English, French}

var matcher = language.NewMatcher(supported)

// Supported returns the language codes the program can produce content in.
func Supported() []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// IsSupported reports whether code is exactly one of the supported codes.
func IsSupported(code string) bool {
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// Normalize maps an arbitrary language code onto the closest supported
// code. Regional variants collapse to their base language ("fr-CA" to
// "fr"); unknown or empty codes fall back to English.
func Normalize(code string) string {
	if code == "" {
		return English
	}
	_, index := language.MatchStrings(matcher, code)
	return codes[index]
}
