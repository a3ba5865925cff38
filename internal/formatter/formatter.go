// Package formatter turns raw model output into consistently structured text.
//
// Format runs five line passes in a fixed order. Each pass is exported so it
// can be exercised on its own; all of them are pure functions over a slice of
// lines and never reorder non-blank content.
package formatter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	Bullet = "•"

	// NoAnswer replaces empty model output.
	NoAnswer = "No answer generated."
)

// Pass is a single line-sequence rewrite.
type Pass func(lines []string) []string

// Passes lists the rewrites applied by Format, in order.
var Passes = []Pass{
	NormalizeNumberedLists,
	SplitBullets,
	SpaceHeadings,
	ConvertMarkup,
	CollapseBlankLines,
}

func Format(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NoAnswer
	}
	lines := strings.Split(trimmed, "\n")
	for _, pass := range Passes {
		lines = pass(lines)
	}
	return strings.Join(lines, "\n")
}

// NormalizeNumberedLists rewrites "1. item" and "1) item" as bullet lines,
// keeping the original indentation. Only markers whose ". " or ") " falls in
// the first four runes of the trimmed line are recognised.
func NormalizeNumberedLists(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, numberedToBullet(line))
	}
	return out
}

func numberedToBullet(line string) string {
	s := []rune(strings.TrimSpace(line))
	if len(s) <= 2 || !unicode.IsDigit(s[0]) {
		return line
	}
	head := string(s[:min(4, len(s))])
	if !strings.Contains(head, ". ") && !strings.Contains(head, ") ") {
		return line
	}
	for i := 0; i < len(s)-1; i++ {
		if (s[i] == '.' || s[i] == ')') && s[i+1] == ' ' {
			content := strings.TrimSpace(string(s[i+2:]))
			return indentOf(line) + Bullet + " " + content
		}
	}
	return line
}

// SplitBullets breaks lines carrying several bullets into one bullet per line.
// Text before the first bullet is kept as its own line, followed by a blank
// line when it looks like a heading.
func SplitBullets(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Count(line, Bullet) <= 1 {
			out = append(out, line)
			continue
		}
		parts := strings.Split(line, Bullet)
		indent := ""
		if !isBlank(parts[0]) {
			indent = indentOf(parts[0])
		}
		for i, part := range parts {
			cleaned := strings.TrimSpace(part)
			if cleaned == "" {
				continue
			}
			if i == 0 {
				out = append(out, cleaned)
				if strings.HasPrefix(cleaned, "**") || strings.HasPrefix(cleaned, "#") {
					out = append(out, "")
				}
				continue
			}
			out = append(out, indent+Bullet+" "+cleaned)
		}
	}
	return out
}

// SpaceHeadings surrounds headings with single blank lines.
func SpaceHeadings(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		heading := isHeading(line)
		if heading && len(out) > 0 && !isBlank(out[len(out)-1]) {
			out = append(out, "")
		}
		out = append(out, line)
		if heading && i+1 < len(lines) && !isBlank(lines[i+1]) {
			out = append(out, "")
		}
	}
	return out
}

// ConvertMarkup replaces **bold** pairs with <strong> and #-headings with <hN>.
func ConvertMarkup(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = headingElement(strongEmphasis(line))
	}
	return out
}

func strongEmphasis(line string) string {
	for {
		start := strings.Index(line, "**")
		if start < 0 {
			return line
		}
		end := strings.Index(line[start+2:], "**")
		if end < 0 {
			return line
		}
		end += start + 2
		line = line[:start] + "<strong>" + line[start+2:end] + "</strong>" + line[end+2:]
	}
}

func headingElement(line string) string {
	s := strings.TrimSpace(line)
	for level := 3; level >= 1; level-- {
		if strings.HasPrefix(s, strings.Repeat("#", level)) {
			return fmt.Sprintf("<h%d>%s</h%d>", level, strings.TrimSpace(s[level:]), level)
		}
	}
	return line
}

// CollapseBlankLines keeps at most one blank line in a row.
func CollapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		blank := isBlank(line)
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return out
}

func isHeading(line string) bool {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "#") {
		return true
	}
	return strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**") && utf8.RuneCountInString(s) > 4
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// indentOf returns one space per leading whitespace rune.
func indentOf(s string) string {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	return strings.Repeat(" ", utf8.RuneCountInString(s)-utf8.RuneCountInString(rest))
}
