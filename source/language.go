// Package source classifies and prepares raw input before it is handed to the
// skeleton renderer.
package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Language is an identifier of the input language, similar to editor language
// ids.
type Language string

const (
	LangHTML      Language = "html"
	LangTwig      Language = "twig"
	LangPHP       Language = "php"
	LangBlade     Language = "blade"
	LangPlaintext Language = "plaintext"
	LangUnknown   Language = ""
)

// UnsupportedPlaceholder is produced instead of a skeleton for input in
// languages which are not enabled.
const UnsupportedPlaceholder = "/* Only works in HTML/Twig files */\n"

// NoInputPlaceholder is produced when there is nothing to process.
const NoInputPlaceholder = "/* Open a .twig or .html file */\n"

// compound extensions must be checked before simple ones
var extensions = []struct {
	ext  string
	lang Language
}{
	{".blade.php", LangBlade},
	{".html.twig", LangTwig},
	{".twig", LangTwig},
	{".html", LangHTML},
	{".htm", LangHTML},
	{".xhtml", LangHTML},
	{".php", LangPHP},
	{".phtml", LangPHP},
	{".txt", LangPlaintext},
}

// DetectLanguage guesses language from file name.
func DetectLanguage(name string) Language {
	base := strings.ToLower(filepath.Base(name))
	for _, e := range extensions {
		if strings.HasSuffix(base, e.ext) {
			return e.lang
		}
	}
	return LangUnknown
}

// ParseLanguage validates language identifier.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LangHTML, LangTwig, LangPHP, LangBlade, LangPlaintext:
		return l, nil
	}
	return LangUnknown, fmt.Errorf("unknown language %q", s)
}

// Extensions returns file extensions mapped to any of the languages.
func Extensions(langs Languages) []string {
	var out []string
	for _, e := range extensions {
		if langs.Supported(e.lang) {
			out = append(out, e.ext)
		}
	}
	return out
}

// Languages is the set of enabled input languages.
type Languages struct {
	enabled []Language
}

// NewLanguages builds set from configuration values, unknown values are
// reported as error.
func NewLanguages(names []string) (Languages, error) {
	var ls Languages
	for _, n := range names {
		l, err := ParseLanguage(n)
		if err != nil {
			return Languages{}, err
		}
		if !slices.Contains(ls.enabled, l) {
			ls.enabled = append(ls.enabled, l)
		}
	}
	return ls, nil
}

func (ls Languages) Supported(l Language) bool {
	return l != LangUnknown && slices.Contains(ls.enabled, l)
}

func (ls Languages) String() string {
	names := make([]string, 0, len(ls.enabled))
	for _, l := range ls.enabled {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}
