// Package snippet loads typing targets and builds targeted practice
// text from weak keys.
package snippet

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Snippet is one immutable typing target.
type Snippet struct {
	Lang string
	Path string
	Text string
}

// LoadFile reads a single snippet file. Windows line endings are
// normalized and trailing blank lines dropped so the session never
// ends on invisible characters.
func LoadFile(path, lang string) (Snippet, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snippet{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only snippet.
			_ = cerr
		}
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Snippet{}, err
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return Snippet{}, fmt.Errorf("snippet file is empty: %s", path)
	}
	return Snippet{Lang: lang, Path: path, Text: text}, nil
}

// LoadDir reads every snippet file under dir/<lang>, sorted by name.
func LoadDir(dir, lang string) ([]Snippet, error) {
	langDir := filepath.Join(dir, lang)
	entries, err := os.ReadDir(langDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var snippets []Snippet
	for _, name := range names {
		sn, err := LoadFile(filepath.Join(langDir, name), lang)
		if err != nil {
			continue
		}
		snippets = append(snippets, sn)
	}
	if len(snippets) == 0 {
		return nil, fmt.Errorf("no snippets for language %q in %s", lang, langDir)
	}
	return snippets, nil
}

// Languages lists the language subdirectories available under dir.
func Languages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var langs []string
	for _, entry := range entries {
		if entry.IsDir() {
			langs = append(langs, entry.Name())
		}
	}
	sort.Strings(langs)
	return langs, nil
}

// Builtin returns the embedded fallback snippets for a language, or
// the plain-text samples when the language has none.
func Builtin(lang string) []Snippet {
	texts, ok := builtinSnippets[lang]
	if !ok {
		texts = builtinSnippets["text"]
		lang = "text"
	}
	out := make([]Snippet, 0, len(texts))
	for _, text := range texts {
		out = append(out, Snippet{Lang: lang, Text: text})
	}
	return out
}

var builtinSnippets = map[string][]string{
	"go": {
		"func sum(values []int) int {\n\ttotal := 0\n\tfor _, v := range values {\n\t\ttotal += v\n\t}\n\treturn total\n}",
		"if err != nil {\n\treturn fmt.Errorf(\"load config: %w\", err)\n}",
		"type Point struct {\n\tX float64\n\tY float64\n}",
	},
	"python": {
		"def fib(n):\n    a, b = 0, 1\n    for _ in range(n):\n        a, b = b, a + b\n    return a",
		"with open(path) as f:\n    for line in f:\n        print(line.strip())",
	},
	"javascript": {
		"const unique = (items) => [...new Set(items)];",
		"function debounce(fn, ms) {\n  let id;\n  return (...args) => {\n    clearTimeout(id);\n    id = setTimeout(() => fn(...args), ms);\n  };\n}",
	},
	"text": {
		"the quick brown fox jumps over the lazy dog",
		"pack my box with five dozen liquor jugs",
		"sphinx of black quartz judge my vow",
	},
}
