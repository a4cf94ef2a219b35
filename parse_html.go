// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"strings"

	"golang.org/x/net/html/atom"
)

const (
	htmlCommentPrefix = "<!--"
	htmlCommentSuffix = "-->"
)

// rawHTMLBlockTags is the set of block-level elements
// that may start a [raw HTML block].
//
// [raw HTML block]: https://daringfireball.net/projects/markdown/syntax#html
var rawHTMLBlockTags = map[atom.Atom]struct{}{
	atom.P:          {},
	atom.Div:        {},
	atom.H1:         {},
	atom.H2:         {},
	atom.H3:         {},
	atom.H4:         {},
	atom.H5:         {},
	atom.H6:         {},
	atom.Blockquote: {},
	atom.Pre:        {},
	atom.Table:      {},
	atom.Dl:         {},
	atom.Ol:         {},
	atom.Ul:         {},
	atom.Script:     {},
	atom.Noscript:   {},
	atom.Form:       {},
	atom.Fieldset:   {},
	atom.Iframe:     {},
	atom.Math:       {},
	atom.Ins:        {},
	atom.Del:        {},
	atom.Hr:         {},
}

// rawHTMLBlockEnd returns the number of lines in the raw HTML block
// at the beginning of lines, or zero if lines does not start with one.
// The block must start at the first column.
// It ends with the line that closes the first element,
// or before the first blank line.
func rawHTMLBlockEnd(lines []string) int {
	first := lines[0]
	if strings.HasPrefix(first, htmlCommentPrefix) {
		for n, line := range lines {
			if isBlankLine(line) {
				return n
			}
			if strings.Contains(line, htmlCommentSuffix) {
				return n + 1
			}
		}
		return len(lines)
	}

	tag := blockTagName(first)
	if tag == 0 {
		return 0
	}
	if tag == atom.Hr {
		return 1
	}
	name := tag.String()
	depth := 0
	for n, line := range lines {
		if isBlankLine(line) {
			return n
		}
		lower := strings.ToLower(line)
		depth += countHTMLTags(lower, "<"+name) - countHTMLTags(lower, "</"+name)
		if depth <= 0 || strings.HasSuffix(strings.TrimRight(lower, " "), "/>") && n == 0 {
			return n + 1
		}
	}
	return len(lines)
}

// blockTagName returns the element name of the opening tag
// at the beginning of the line if it is one of [rawHTMLBlockTags].
func blockTagName(line string) atom.Atom {
	if len(line) < 2 || line[0] != '<' {
		return 0
	}
	end := 1 + htmlTagNameEnd(line[1:])
	if end == 1 || end < len(line) && !isTagNameTerminator(line[end]) {
		return 0
	}
	a := atom.Lookup([]byte(strings.ToLower(line[1:end])))
	if _, ok := rawHTMLBlockTags[a]; !ok {
		return 0
	}
	return a
}

// countHTMLTags counts the occurrences of prefix in lowerLine
// that are followed by the end of a tag name.
func countHTMLTags(lowerLine, prefix string) int {
	n := 0
	for {
		i := strings.Index(lowerLine, prefix)
		if i < 0 {
			return n
		}
		lowerLine = lowerLine[i+len(prefix):]
		if lowerLine == "" || isTagNameTerminator(lowerLine[0]) {
			n++
		}
	}
}

func isTagNameTerminator(c byte) bool {
	return c == ' ' || c == '>' || c == '/'
}

// htmlTagNameEnd returns the length of the tag name at the beginning of s.
func htmlTagNameEnd(s string) int {
	if s == "" || !isASCIILetter(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && (isASCIILetter(s[i]) || isASCIIDigit(s[i]) || s[i] == '-') {
		i++
	}
	return i
}

// parseHTMLTag parses an inline HTML tag or comment
// that starts at s[start], which must be '<'.
// It returns the end of the tag or -1 if s does not contain a tag at start.
func parseHTMLTag(s string, start int) (end int) {
	rest := s[start:]
	switch {
	case strings.HasPrefix(rest, htmlCommentPrefix):
		i := strings.Index(rest[len(htmlCommentPrefix):], htmlCommentSuffix)
		if i < 0 {
			return -1
		}
		return start + len(htmlCommentPrefix) + i + len(htmlCommentSuffix)
	case strings.HasPrefix(rest, "</"):
		return parseHTMLClosingTag(s, start+len("</"))
	default:
		return parseHTMLOpenTag(s, start+len("<"))
	}
}

// parseHTMLOpenTag parses an open tag sans the leading '<'.
// Self-closing tags are permitted.
func parseHTMLOpenTag(s string, pos int) (end int) {
	n := htmlTagNameEnd(s[pos:])
	if n == 0 {
		return -1
	}
	pos += n
	for {
		afterSpace := skipHTMLSpace(s, pos)
		if afterSpace >= len(s) {
			return -1
		}
		switch s[afterSpace] {
		case '/':
			if afterSpace+1 < len(s) && s[afterSpace+1] == '>' {
				return afterSpace + 2
			}
			return -1
		case '>':
			return afterSpace + 1
		}
		if afterSpace == pos {
			return -1
		}
		pos = parseHTMLAttribute(s, afterSpace)
		if pos < 0 {
			return -1
		}
	}
}

// parseHTMLClosingTag parses a closing tag sans the leading "</".
func parseHTMLClosingTag(s string, pos int) (end int) {
	n := htmlTagNameEnd(s[pos:])
	if n == 0 {
		return -1
	}
	pos = skipHTMLSpace(s, pos+n)
	if pos >= len(s) || s[pos] != '>' {
		return -1
	}
	return pos + 1
}

// parseHTMLAttribute parses an attribute name
// and an optional value.
// It returns the position after the attribute or -1.
func parseHTMLAttribute(s string, pos int) (end int) {
	if pos >= len(s) {
		return -1
	}
	if c := s[pos]; !isASCIILetter(c) && c != '_' && c != ':' {
		return -1
	}
	pos++
	for pos < len(s) && (isASCIILetter(s[pos]) || isASCIIDigit(s[pos]) || strings.IndexByte("_.:-", s[pos]) >= 0) {
		pos++
	}

	// Don't consume space unless it is followed by an equal sign,
	// since it will cause future attributes to fail.
	eq := skipHTMLSpace(s, pos)
	if eq >= len(s) || s[eq] != '=' {
		return pos
	}
	valueStart := skipHTMLSpace(s, eq+1)
	if valueStart >= len(s) {
		return -1
	}
	switch c := s[valueStart]; {
	case c == '\'' || c == '"':
		i := strings.IndexByte(s[valueStart+1:], c)
		if i < 0 {
			return -1
		}
		return valueStart + 1 + i + 1
	case isUnquotedAttributeValueChar(c):
		end := valueStart + 1
		for end < len(s) && isUnquotedAttributeValueChar(s[end]) {
			end++
		}
		return end
	default:
		return -1
	}
}

func skipHTMLSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\n') {
		pos++
	}
	return pos
}

func isUnquotedAttributeValueChar(c byte) bool {
	return c != ' ' && c != '\n' && strings.IndexByte("\"'=<>`", c) < 0
}
