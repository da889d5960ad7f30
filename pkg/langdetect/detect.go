// Package langdetect names the language of code block content and
// canonicalises the language tags written in fence info strings.
//
// Both halves lean on go-enry: aliases resolve through enry's linguist
// table, and detection falls back to its classifier once the cheap
// content patterns have had their say.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Canonical returns the canonical fence tag for a language name as it may
// appear in an info string or a config file: "{.py}", "Python" and "py" all
// become "python". Unknown names are lowercased and returned as they are.
func Canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
	name = strings.TrimPrefix(strings.TrimSpace(name), ".")
	if name == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(name); ok {
		return fenceTag(lang)
	}
	// Short tags such as "py" are usually file extensions.
	if lang, safe := enry.GetLanguageByExtension("block." + name); safe {
		return fenceTag(lang)
	}
	return name
}

// classifierCandidates limits enry's classifier to languages that commonly
// show up in prose documentation.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "R", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "TeX", "Dockerfile",
}

// Detect returns the fence tag of the language code is written in, or ""
// when no detector is confident.
func Detect(code []byte) string {
	if len(bytes.TrimSpace(code)) == 0 {
		return ""
	}
	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return fenceTag(lang)
	}
	for _, p := range contentPatterns {
		if p.match(code) {
			return p.lang
		}
	}
	if lang, safe := enry.GetLanguageByClassifier(code, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return ""
}

// contentPattern is a cheap, highly indicative test run before the
// classifier, which is unreliable on short snippets.
type contentPattern struct {
	lang  string
	match func(code []byte) bool
}

//nolint:gochecknoglobals // Read-only pattern table, checked in order.
var contentPatterns = []contentPattern{
	{"go", func(code []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(code), []byte("package "))
	}},
	{"python", looksLikePython},
	{"html", func(code []byte) bool {
		lower := bytes.ToLower(code)
		return containsAny(lower, "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(code []byte) bool {
		trimmed := bytes.TrimSpace(code)
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{"dockerfile", func(code []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(code), []byte("FROM ")) ||
			containsAll(code, "\nFROM ", "\nRUN ") ||
			containsAll(code, "WORKDIR ", "COPY ")
	}},
	{"sql", func(code []byte) bool {
		upper := bytes.ToUpper(bytes.TrimSpace(code))
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if bytes.HasPrefix(upper, []byte(kw)) {
				return true
			}
		}
		return false
	}},
	{"rust", func(code []byte) bool {
		return containsAny(code, "fn main()", "println!", "let mut ")
	}},
	{"r", func(code []byte) bool {
		return containsAny(code, "<- function(", "library(", "%>%", "|> ")
	}},
	{"javascript", func(code []byte) bool {
		return containsAny(code, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", looksLikeYAML},
}

func looksLikePython(code []byte) bool {
	s := string(code)
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	if strings.Contains(s, "__name__") || strings.Contains(s, "__main__") {
		return true
	}
	// Go groups imports with "import (".
	if strings.Contains(s, "import ") && !strings.Contains(s, "import (") {
		return strings.Contains(s, "from ") || strings.HasPrefix(strings.TrimSpace(s), "import ")
	}
	return false
}

// looksLikeYAML counts "key: value" lines and root level list items.
func looksLikeYAML(code []byte) bool {
	count := 0
	for _, line := range bytes.Split(code, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) && !containsAny(line, "(", "{") && line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

func containsAny(b []byte, subs ...string) bool {
	for _, s := range subs {
		if bytes.Contains(b, []byte(s)) {
			return true
		}
	}
	return false
}

func containsAll(b []byte, subs ...string) bool {
	for _, s := range subs {
		if !bytes.Contains(b, []byte(s)) {
			return false
		}
	}
	return true
}

// fenceTag converts a linguist language name to the tag written after a
// code fence.
func fenceTag(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "Dockerfile":
		return "dockerfile"
	}
	return strings.ToLower(strings.ReplaceAll(lang, " ", "-"))
}
