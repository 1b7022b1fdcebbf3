// Package wordlist loads target, username and password lists from flat
// files: one value per line, blank lines and '#' comment lines ignored.
package wordlist

import (
	"bufio"
	"os"
	"strings"

	"credprobe/internal/platform/errors"
)

// LoadLines reads a list file, one value per line. Blank lines and lines
// starting with '#' are skipped; surrounding whitespace is trimmed.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open list file %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	// Password dictionaries can carry long lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read list file %s", path)
	}

	return lines, nil
}

// LoadPasswords reads a password dictionary, preserving order and
// dropping duplicate entries.
func LoadPasswords(path string) ([]string, error) {
	lines, err := LoadLines(path)
	if err != nil {
		return nil, err
	}
	return Dedupe(lines), nil
}

// LoadOrLiteral resolves a source that is either a file path or a single
// literal value: if a file exists at source its lines are loaded,
// otherwise the trimmed source itself is the one-element list.
func LoadOrLiteral(source string) ([]string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.ErrInvalidInput
	}

	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		return LoadLines(source)
	}

	return []string{source}, nil
}

// Dedupe removes duplicate entries preserving first-seen order.
func Dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
