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
	"strconv"
	"strings"
)

// codeBlockIndentLimit is the column width of an indent
// required to start a code block.
const codeBlockIndentLimit = 4

// maxListMarkerDigits is the maximum number of digits
// permitted in an ordered list marker.
const maxListMarkerDigits = 9

// segmenter splits normalized lines into a tree of blocks.
type segmenter struct {
	maxNesting int
}

// segmentContext describes the container whose lines are being segmented.
type segmentContext struct {
	depth      int
	inListItem bool
}

func (ctx segmentContext) nested(inListItem bool) segmentContext {
	return segmentContext{depth: ctx.depth + 1, inListItem: inListItem}
}

// A blockStart attempts to start a block at the first line.
// It returns the number of lines consumed
// or zero if the lines do not start such a block.
type blockStart func(s *segmenter, lines []string, ctx segmentContext) (*Block, int)

// blockStarts is the list of block rules in priority order.
// Lines that don't start any of these blocks start a paragraph.
// It is populated in init because container rules recurse into segment.
var blockStarts []blockStart

func init() {
	blockStarts = []blockStart{
		horizontalRuleStart,
		atxHeaderStart,
		setextHeaderStart,
		blockquoteStart,
		listStart,
		codeBlockStart,
		rawHTMLBlockStart,
		referenceDefinitionStart,
	}
}

// segment splits lines into a sequence of blocks.
func (s *segmenter) segment(lines []string, ctx segmentContext) []*Block {
	if ctx.depth > s.maxNesting {
		tracer().Debugf("markdown: nesting depth %d exceeds limit %d; flattening to paragraphs", ctx.depth, s.maxNesting)
		return flatParagraphs(lines)
	}

	var blocks []*Block
	for i := 0; i < len(lines); {
		if isBlankLine(lines[i]) {
			i++
			continue
		}
		var b *Block
		n := 0
		for _, start := range blockStarts {
			if b, n = start(s, lines[i:], ctx); n > 0 {
				break
			}
		}
		if n == 0 {
			b, n = paragraphStart(lines[i:], ctx)
		}
		blocks = append(blocks, b)
		i += n
	}
	return blocks
}

// flatParagraphs splits lines into paragraphs at blank lines
// without recognizing any other block structure.
func flatParagraphs(lines []string) []*Block {
	var blocks []*Block
	for i := 0; i < len(lines); {
		if isBlankLine(lines[i]) {
			i++
			continue
		}
		start := i
		for i < len(lines) && !isBlankLine(lines[i]) {
			i++
		}
		blocks = append(blocks, &Block{
			kind:  ParagraphKind,
			lines: lines[start:i],
		})
	}
	return blocks
}

func paragraphStart(lines []string, ctx segmentContext) (*Block, int) {
	n := 1
	for ; n < len(lines); n++ {
		if isBlankLine(lines[n]) || interruptsParagraph(lines[n], ctx) {
			break
		}
		if n+1 < len(lines) && isSetextUnderline(lines[n+1]) != 0 && indentWidth(lines[n]) < codeBlockIndentLimit {
			break
		}
	}
	return &Block{kind: ParagraphKind, lines: lines[:n]}, n
}

// interruptsParagraph reports whether a line ends a paragraph
// without needing a blank line.
// Block quote markers and indented lines are lazy continuations instead.
func interruptsParagraph(line string, ctx segmentContext) bool {
	if isHorizontalRule(line) || parseATXHeader(line).level > 0 {
		return true
	}
	if def, n := parseReferenceDefinition([]string{line}); n > 0 && def.hasValidLabel() {
		return true
	}
	if ctx.inListItem {
		if _, ok := parseListMarker(line); ok {
			return true
		}
	}
	return false
}

func horizontalRuleStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	if !isHorizontalRule(lines[0]) {
		return nil, 0
	}
	return &Block{kind: HorizontalRuleKind}, 1
}

// isHorizontalRule reports whether the line consists of three or more
// of the same '*', '-', or '_' character, optionally separated by spaces.
func isHorizontalRule(line string) bool {
	if indentWidth(line) >= codeBlockIndentLimit {
		return false
	}
	n := 0
	var want byte
	for i := 0; i < len(line); i++ {
		switch b := line[i]; b {
		case '-', '_', '*':
			if n == 0 {
				want = b
			} else if b != want {
				return false
			}
			n++
		case ' ':
			// Ignore.
		default:
			return false
		}
	}
	return n >= 3
}

func atxHeaderStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	h := parseATXHeader(lines[0])
	if h.level == 0 {
		return nil, 0
	}
	return &Block{
		kind:  HeaderKind,
		level: h.level,
		lines: []string{h.content},
	}, 1
}

type atxHeader struct {
	level   int // 1-6
	content string
}

// parseATXHeader attempts to parse the line as an [atx-style header].
// The level is zero if the line is not a header.
//
// [atx-style header]: https://daringfireball.net/projects/markdown/syntax#header
func parseATXHeader(line string) atxHeader {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n == len(line) {
		return atxHeader{}
	}
	h := atxHeader{level: n}
	if h.level > 6 {
		h.level = 6
	}
	content := strings.Trim(line[h.level:], " ")

	// Remove closing hashes, unless the first one is escaped.
	trimmed := strings.TrimRight(content, "#")
	if len(trimmed) < len(content) && !isEndEscaped(trimmed) {
		content = strings.TrimRight(trimmed, " ")
	}
	h.content = content
	return h
}

// isEndEscaped reports whether s ends with an odd number of backslashes.
func isEndEscaped(s string) bool {
	n := 0
	for ; n < len(s); n++ {
		if s[len(s)-n-1] != '\\' {
			break
		}
	}
	return n%2 == 1
}

func setextHeaderStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	if len(lines) < 2 || indentWidth(lines[0]) >= codeBlockIndentLimit {
		return nil, 0
	}
	level := isSetextUnderline(lines[1])
	if level == 0 {
		return nil, 0
	}
	return &Block{
		kind:  HeaderKind,
		level: level,
		lines: []string{strings.Trim(lines[0], " ")},
	}, 2
}

// isSetextUnderline returns 1 if the line consists only of '=' characters,
// 2 if the line consists only of '-' characters, or 0 otherwise.
// Trailing spaces are permitted.
func isSetextUnderline(line string) int {
	line = strings.TrimRight(line, " ")
	if line == "" {
		return 0
	}
	switch {
	case strings.Trim(line, "=") == "":
		return 1
	case strings.Trim(line, "-") == "":
		return 2
	default:
		return 0
	}
}

func blockquoteStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	if !isBlockquoteLine(lines[0]) {
		return nil, 0
	}
	content := []string{stripBlockquoteMarker(lines[0])}
	n := 1
	for n < len(lines) {
		line := lines[n]
		switch {
		case isBlockquoteLine(line):
			content = append(content, stripBlockquoteMarker(line))
			n++
		case isBlankLine(line):
			next := n
			for next < len(lines) && isBlankLine(lines[next]) {
				next++
			}
			if next >= len(lines) || !isBlockquoteLine(lines[next]) {
				return newBlockquote(s, content, ctx), n
			}
			for ; n < next; n++ {
				content = append(content, "")
			}
		case !isBlankLine(content[len(content)-1]) && !isHorizontalRule(line) && parseATXHeader(line).level == 0:
			// Lazy continuation.
			content = append(content, line)
			n++
		default:
			return newBlockquote(s, content, ctx), n
		}
	}
	return newBlockquote(s, content, ctx), n
}

func newBlockquote(s *segmenter, content []string, ctx segmentContext) *Block {
	return &Block{
		kind:          BlockquoteKind,
		blockChildren: s.segment(content, ctx.nested(false)),
	}
}

func isBlockquoteLine(line string) bool {
	indent := indentWidth(line)
	return indent < codeBlockIndentLimit && indent < len(line) && line[indent] == '>'
}

// stripBlockquoteMarker removes the '>' marker
// and at most one following space from a block quote line.
func stripBlockquoteMarker(line string) string {
	line = line[indentWidth(line)+1:]
	line = strings.TrimPrefix(line, " ")
	if strings.Trim(line, " ") == "" {
		return ""
	}
	return line
}

type listMarker struct {
	ordered bool
	number  int
	indent  int
	// contentColumn is the column at which the item's text begins.
	contentColumn int
}

// parseListMarker attempts to parse a [list marker] at the beginning of the line.
//
// [list marker]: https://daringfireball.net/projects/markdown/syntax#list
func parseListMarker(line string) (listMarker, bool) {
	m := listMarker{indent: indentWidth(line)}
	if m.indent >= codeBlockIndentLimit {
		return listMarker{}, false
	}
	rest := line[m.indent:]
	markerLen := 0
	switch {
	case rest == "":
		return listMarker{}, false
	case rest[0] == '*' || rest[0] == '+' || rest[0] == '-':
		markerLen = 1
	default:
		for markerLen < len(rest) && isASCIIDigit(rest[markerLen]) {
			markerLen++
		}
		if markerLen == 0 || markerLen > maxListMarkerDigits || markerLen >= len(rest) || rest[markerLen] != '.' {
			return listMarker{}, false
		}
		m.ordered = true
		m.number, _ = strconv.Atoi(rest[:markerLen])
		markerLen++
	}
	spaces := indentWidth(rest[markerLen:])
	if spaces == 0 {
		return listMarker{}, false
	}
	if spaces > codeBlockIndentLimit || markerLen+spaces == len(rest) {
		spaces = 1
	}
	m.contentColumn = m.indent + markerLen + spaces
	return m, true
}

func (m listMarker) content(line string) string {
	if m.contentColumn >= len(line) {
		return ""
	}
	return line[m.contentColumn:]
}

func listStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	first, ok := parseListMarker(lines[0])
	if !ok {
		return nil, 0
	}
	list := &Block{kind: UnorderedListKind}
	if first.ordered {
		list.kind = OrderedListKind
		list.start = first.number
	}

	var items [][]string
	curr := []string{first.content(lines[0])}
	contentColumn := first.contentColumn
	outdent := max(contentColumn, codeBlockIndentLimit)
	startItem := func(m listMarker, line string) {
		items = append(items, curr)
		curr = []string{m.content(line)}
		contentColumn = m.contentColumn
		outdent = max(contentColumn, codeBlockIndentLimit)
	}

	n := 1
scan:
	for n < len(lines) {
		line := lines[n]
		if isBlankLine(line) {
			next := n
			for next < len(lines) && isBlankLine(lines[next]) {
				next++
			}
			if next >= len(lines) {
				break scan
			}
			nextLine := lines[next]
			if m, ok := parseListMarker(nextLine); ok && m.indent < contentColumn && !isHorizontalRule(nextLine) {
				list.loose = true
				startItem(m, nextLine)
				n = next + 1
				continue
			}
			if indent := indentWidth(nextLine); indent < contentColumn && indent < codeBlockIndentLimit {
				break scan
			}
			list.loose = true
			for ; n < next; n++ {
				curr = append(curr, "")
			}
			continue
		}

		indent := indentWidth(line)
		switch {
		case indent < contentColumn && isHorizontalRule(line):
			break scan
		case indent < contentColumn && parseATXHeader(line).level > 0:
			break scan
		}
		if m, ok := parseListMarker(line); ok && m.indent < contentColumn {
			startItem(m, line)
		} else {
			curr = append(curr, trimIndent(line, outdent))
		}
		n++
	}
	items = append(items, curr)

	for _, itemLines := range items {
		item := &Block{
			kind:          ListItemKind,
			loose:         list.loose,
			blockChildren: s.segment(itemLines, ctx.nested(true)),
		}
		if !list.loose && len(item.blockChildren) > 0 && item.blockChildren[0].Kind() == ParagraphKind {
			item.lines = item.blockChildren[0].lines
			item.blockChildren = item.blockChildren[1:]
		}
		list.blockChildren = append(list.blockChildren, item)
	}
	return list, n
}

func codeBlockStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	end := 0
	for i := 0; i < len(lines); i++ {
		if isBlankLine(lines[i]) {
			continue
		}
		if indentWidth(lines[i]) < codeBlockIndentLimit {
			break
		}
		end = i + 1
	}
	if end == 0 {
		return nil, 0
	}
	sb := new(strings.Builder)
	for _, line := range lines[:end] {
		sb.WriteString(trimIndent(line, codeBlockIndentLimit))
		sb.WriteByte('\n')
	}
	return &Block{kind: CodeBlockKind, literal: sb.String()}, end
}

func rawHTMLBlockStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	n := rawHTMLBlockEnd(lines)
	if n == 0 {
		return nil, 0
	}
	sb := new(strings.Builder)
	for _, line := range lines[:n] {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return &Block{kind: RawHTMLBlockKind, literal: sb.String()}, n
}

func referenceDefinitionStart(s *segmenter, lines []string, ctx segmentContext) (*Block, int) {
	def, n := parseReferenceDefinition(lines)
	if n == 0 {
		return nil, 0
	}
	if !def.hasValidLabel() {
		tracer().Debugf("markdown: malformed reference label %q kept as text", def.label)
		return nil, 0
	}
	return &Block{
		kind:   referenceDefinitionKind,
		refdef: def,
		lines:  lines[:n],
	}, n
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
