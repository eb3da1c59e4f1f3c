// tokenizer_directive.go scans the opening line of ::leaf and :::container directives.
package md

import (
	"fmt"
	"strings"
	"unicode"
)

// directiveHead is the parsed opening line of a directive.
type directiveHead struct {
	Name       string
	Fence      int // number of leading colons
	HasLabel   bool
	LabelStart int // byte offset of the label content within the line
	LabelStop  int
	Attributes Attributes
}

// Shape returns the directive shape implied by the fence length.
func (h directiveHead) Shape() Shape {
	if h.Fence >= 3 {
		return ShapeContainer
	}
	return ShapeLeaf
}

// scanDirectiveHead parses a directive opening line starting at pos.
// Recognized forms:
//   - ::name, ::name[label], ::name{attrs}, ::name[label]{attrs}
//   - :::name with the same optional parts and three or more colons
//
// Anything other than whitespace after the attributes makes the line an
// ordinary paragraph.
func scanDirectiveHead(line string, pos int) (directiveHead, error) {
	var head directiveHead

	i := pos
	for i < len(line) && line[i] == ':' {
		i++
	}
	head.Fence = i - pos
	if head.Fence < 2 {
		return head, fmt.Errorf("expected at least two colons")
	}

	// Name: a letter followed by letters, digits, '-' or '_'
	nameStart := i
	if i >= len(line) || !isDirectiveNameStart(line[i]) {
		return head, fmt.Errorf("missing directive name")
	}
	for i < len(line) && isDirectiveNameChar(line[i]) {
		i++
	}
	head.Name = line[nameStart:i]

	if i < len(line) && line[i] == '[' {
		end, err := scanLabel(line, i)
		if err != nil {
			return head, err
		}
		head.HasLabel = true
		head.LabelStart = i + 1
		head.LabelStop = end
		i = end + 1
	}

	head.Attributes = Attributes{}
	if i < len(line) && line[i] == '{' {
		attrs, end, err := parseAttributesUntilClose(line, i+1)
		if err != nil {
			return head, err
		}
		head.Attributes = attrs
		i = end
	}

	if strings.TrimSpace(line[i:]) != "" {
		return head, fmt.Errorf("unexpected content after directive")
	}
	return head, nil
}

// scanLabel returns the index of the ']' matching the '[' at pos.
// Nested brackets must balance and backslash escapes are skipped.
func scanLabel(line string, pos int) (int, error) {
	depth := 0
	for i := pos; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '\n':
			return 0, fmt.Errorf("unclosed label")
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unclosed label")
}

// isClosingFence reports whether line, starting at pos, is a run of at
// least fence colons followed only by whitespace.
func isClosingFence(line string, pos, fence int) bool {
	i := pos
	for i < len(line) && line[i] == ':' {
		i++
	}
	if i-pos < fence || i-pos < 3 {
		return false
	}
	return strings.TrimSpace(line[i:]) == ""
}

// parseAttributesUntilClose parses attributes until '}'.
// Returns the attribute map, position after '}', and any error.
func parseAttributesUntilClose(input string, pos int) (Attributes, int, error) {
	attrs := Attributes{}

	for pos < len(input) {
		// Skip whitespace
		for pos < len(input) && isAttrSpace(input[pos]) {
			pos++
		}
		if pos >= len(input) {
			break
		}

		switch input[pos] {
		case '}':
			return attrs, pos + 1, nil
		case '#', '.':
			// Shortcuts: #id and .class
			marker := input[pos]
			pos++
			start := pos
			for pos < len(input) && !isAttrSpace(input[pos]) && input[pos] != '}' && input[pos] != '#' && input[pos] != '.' {
				pos++
			}
			if pos == start {
				return nil, pos, fmt.Errorf("empty %q shortcut", marker)
			}
			value := input[start:pos]
			if marker == '#' {
				attrs["id"] = value
			} else if existing := attrs["class"]; existing != "" {
				attrs["class"] = existing + " " + value
			} else {
				attrs["class"] = value
			}
			continue
		}

		// Parse attribute key
		keyStart := pos
		for pos < len(input) && isValidAttrKeyChar(rune(input[pos])) {
			pos++
		}
		if pos == keyStart {
			return nil, pos, fmt.Errorf("expected attribute key or '}'")
		}
		key := input[keyStart:pos]

		// Allow whitespace around '='
		look := pos
		for look < len(input) && isAttrSpace(input[look]) {
			look++
		}
		if look >= len(input) || input[look] != '=' {
			// Key without value: presence only
			attrs[key] = ""
			continue
		}
		pos = look + 1
		for pos < len(input) && isAttrSpace(input[pos]) {
			pos++
		}

		value, newPos, err := parseAttrValue(input, pos)
		if err != nil {
			return nil, pos, err
		}
		if key == "class" && attrs["class"] != "" {
			attrs["class"] = attrs["class"] + " " + value
		} else {
			attrs[key] = value
		}
		pos = newPos
	}

	return nil, pos, fmt.Errorf("unclosed attribute list")
}

// parseAttrValue parses an attribute value, handling quoted strings.
// Escaped quotes (\' or \") are unescaped in the returned value.
func parseAttrValue(input string, pos int) (string, int, error) {
	if pos >= len(input) {
		return "", pos, fmt.Errorf("unexpected end of input")
	}

	// Check for quoted value
	if input[pos] == '"' || input[pos] == '\'' {
		quoteChar := input[pos]
		pos++ // skip opening quote
		valueStart := pos
		var value strings.Builder

		for pos < len(input) {
			if input[pos] == quoteChar {
				if valueStart < pos {
					value.WriteString(input[valueStart:pos])
				}
				pos++ // skip closing quote
				return value.String(), pos, nil
			}
			if input[pos] == '\n' {
				break
			}
			// Handle escaped quotes
			if input[pos] == '\\' && pos+1 < len(input) && input[pos+1] == quoteChar {
				if valueStart < pos {
					value.WriteString(input[valueStart:pos])
				}
				value.WriteByte(quoteChar)
				pos += 2
				valueStart = pos
				continue
			}
			pos++
		}
		return "", pos, fmt.Errorf("unclosed quoted value")
	}

	// Unquoted value - read until whitespace or '}'
	valueStart := pos
	for pos < len(input) && !isAttrSpace(input[pos]) && input[pos] != '}' {
		if input[pos] == '"' || input[pos] == '\'' || input[pos] == '=' || input[pos] == '<' || input[pos] == '>' || input[pos] == '`' {
			return "", pos, fmt.Errorf("invalid character %q in unquoted value", input[pos])
		}
		pos++
	}
	if pos == valueStart {
		return "", pos, fmt.Errorf("empty unquoted value")
	}
	return input[valueStart:pos], pos, nil
}

func isAttrSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// isDirectiveNameStart returns true if c may start a directive name.
func isDirectiveNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDirectiveNameChar returns true if c is valid in a directive name.
func isDirectiveNameChar(c byte) bool {
	return isDirectiveNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// isValidAttrKeyChar returns true if r is valid in an attribute key.
func isValidAttrKeyChar(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == ':')
}
