// Package deckfile reads cards from deck files. Plain text files hold one
// "front >> back" card per line; JSON and YAML files hold a document with a
// cards list.
package deckfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Separator splits the front from the back of a card in text files.
const Separator = ">>"

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("deckfile: syntax error")

// Card is one front/back pair.
type Card struct {
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// ParseError reports a malformed line of a text deck file.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// Format is a deck file encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// ReadFile reads the cards of the deck file at path.
func ReadFile(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cards, err := Read(f, FormatOf(path))
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Path = path
	}
	return cards, err
}

// Read reads cards in the given format.
func Read(r io.Reader, format Format) ([]Card, error) {
	if format == FormatText {
		return ParseText(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return DecodeYAML(data)
	}
	return DecodeJSON(data)
}

// ParseText reads "front >> back" lines. Blank lines and lines starting
// with # are skipped, and a leading "-" or "*" bullet is dropped.
func ParseText(r io.Reader) ([]Card, error) {
	var cards []Card
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if strings.HasPrefix(text, "- ") || strings.HasPrefix(text, "* ") {
			text = strings.TrimSpace(text[2:])
		}

		parts := strings.Split(text, Separator)
		if len(parts) != 2 {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("want exactly one %q, got %d", Separator, len(parts)-1)}
		}
		c := Card{Front: strings.TrimSpace(parts[0]), Back: strings.TrimSpace(parts[1])}
		if c.Front == "" || c.Back == "" {
			return nil, &ParseError{Line: line, Reason: "empty front or back"}
		}
		cards = append(cards, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
