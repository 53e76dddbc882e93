package terminal

import (
	"strings"
	"unicode/utf8"
)

// Span is a run of text drawn in one colour.
type Span struct {
	Text   string
	Colour Colour
}

// isTag reports whether a {X} colour tag starts at byte offset i.
func isTag(s string, i int) bool {
	return i+2 < len(s) && s[i] == '{' && s[i+2] == '}'
}

// ParseTags splits text on {X} colour tags. The first span uses base; each
// tag switches colour until the next one. Unknown codes are an error.
func ParseTags(s string, base Colour) ([]Span, error) {
	var spans []Span
	var b strings.Builder
	col := base
	flush := func() {
		if b.Len() > 0 {
			spans = append(spans, Span{Text: b.String(), Colour: col})
			b.Reset()
		}
	}
	for i := 0; i < len(s); {
		if isTag(s, i) {
			c, err := ColourFromCode(s[i+1])
			if err != nil {
				return nil, err
			}
			flush()
			col = c
			i += 3
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(r)
		i += size
	}
	flush()
	return spans, nil
}

// StripTags removes every {X} tag, known or not.
func StripTags(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if isTag(s, i) {
			i += 3
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// VisibleLen counts the glyphs text occupies once tags are removed.
func VisibleLen(s string) int {
	return utf8.RuneCountInString(StripTags(s))
}

// lastTag returns the final colour tag in s, or "".
func lastTag(s string) string {
	for i := len(s) - 3; i >= 0; i-- {
		if isTag(s, i) {
			return s[i : i+3]
		}
	}
	return ""
}

// WrapTagged word-wraps tagged text to width visible glyphs. Lines after the
// first start with the colour tag in effect where the break happened, so
// each line can be printed on its own. Words longer than a line are split.
func WrapTagged(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

func wrapParagraph(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line strings.Builder
	lineLen := 0
	active := ""
	newLine := func() {
		lines = append(lines, line.String())
		line.Reset()
		line.WriteString(active)
		lineLen = 0
	}
	for _, word := range words {
		wl := VisibleLen(word)
		if lineLen > 0 && lineLen+1+wl > width {
			newLine()
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		for wl > width-lineLen {
			head, tail := splitVisible(word, width-lineLen)
			line.WriteString(head)
			if t := lastTag(head); t != "" {
				active = t
			}
			newLine()
			word = tail
			wl = VisibleLen(word)
		}
		line.WriteString(word)
		lineLen += wl
		if t := lastTag(word); t != "" {
			active = t
		}
	}
	lines = append(lines, line.String())
	return lines
}

// splitVisible cuts s after n visible glyphs, keeping tags attached to the
// glyphs that follow them.
func splitVisible(s string, n int) (head, tail string) {
	count := 0
	for i := 0; i < len(s); {
		if isTag(s, i) {
			i += 3
			continue
		}
		if count == n {
			return s[:i], s[i:]
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s, ""
}
