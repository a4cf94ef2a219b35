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

import "strings"

// escapableChars is the set of characters that can be backslash-escaped.
const escapableChars = "\\`*_{}[]()#+-.!>"

// specialChars is the set of characters that can begin an inline construct.
const specialChars = "\\`<>&![*_\n"

// maxEntityLength is the longest entity reference recognized, including "&" and ";".
const maxEntityLength = 32

// An InlineParser resolves the raw text of leaf blocks into inline nodes.
// The zero value resolves only inline links and images.
type InlineParser struct {
	// References is the document's reference table.
	// It is used for reference-style and shortcut links and images
	// and is never modified.
	References ReferenceMap
	// MaxNesting is the maximum depth of emphasis and link nesting.
	// Delimiters beyond this depth are treated as literal text.
	// If MaxNesting is not positive, [DefaultMaxNesting] is used.
	MaxNesting int
}

func (p *InlineParser) maxNesting() int {
	if p.MaxNesting <= 0 {
		return DefaultMaxNesting
	}
	return p.MaxNesting
}

// Rewrite replaces the raw text of every header, paragraph,
// and tight list item in the document with inline nodes.
func (p *InlineParser) Rewrite(doc *Document) {
	Walk(doc.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			b := c.Node().Block()
			if b == nil {
				return c.Node().Document() != nil
			}
			if b.lines != nil {
				b.inlineChildren = p.Resolve(strings.Join(b.lines, "\n"))
				b.lines = nil
			}
			return len(b.blockChildren) > 0
		},
	})
}

// Resolve parses text as the content of a single leaf block.
// Lines in text are separated by "\n".
// Resolve never fails: anything that does not form a complete construct
// is kept as literal text.
func (p *InlineParser) Resolve(text string) []*Inline {
	text = strings.TrimLeft(text, " \n")
	state := p.newState(text, 0, false)
	state.run()
	state.pending = []byte(strings.TrimRight(string(state.pending), " \n"))
	state.flushText()
	return state.nodes
}

func (p *InlineParser) parse(text string, depth int, inLink bool) []*Inline {
	state := p.newState(text, depth, inLink)
	state.run()
	state.flushText()
	return state.nodes
}

type inlineState struct {
	*InlineParser
	text    string
	depth   int
	inLink  bool
	nodes   []*Inline
	pending []byte

	closers  map[emphasisCloserKey]int
	brackets map[int]int
	// codeSpanMisses maps a backtick run length
	// to the earliest position from which no closing run was found.
	codeSpanMisses map[int]int
	// commentMiss is one past the earliest unterminated comment, or zero.
	commentMiss int
	// titleMisses maps a quote character
	// to the earliest position from which no title end was found.
	titleMisses map[byte]int
	targets     *targetIndex
	found       map[byte]bytePos
}

// bytePos records the result of a forward search for a byte.
type bytePos struct {
	from int
	at   int // -1 if not found
}

type emphasisCloserKey struct {
	from   int
	c      byte
	k      int
	budget int
}

func (p *InlineParser) newState(text string, depth int, inLink bool) *inlineState {
	return &inlineState{
		InlineParser: p,
		text:         text,
		depth:        depth,
		inLink:       inLink,
	}
}

func (state *inlineState) run() {
	for pos := 0; pos < len(state.text); {
		pos = state.step(pos)
	}
}

// step parses the inline construct at pos
// and returns the position after it.
func (state *inlineState) step(pos int) int {
	text := state.text
	switch text[pos] {
	case '\\':
		return state.parseBackslash(pos)
	case '`':
		return state.parseCodeSpan(pos)
	case '<':
		return state.parseAngle(pos)
	case '>':
		state.add(entityText("&gt;"))
		return pos + 1
	case '&':
		if end := entityEnd(text, pos); end >= 0 {
			state.add(entityText(text[pos:end]))
			return end
		}
		state.add(entityText("&amp;"))
		return pos + 1
	case '!':
		if pos+1 < len(text) && text[pos+1] == '[' {
			if end := state.parseLink(pos, true); end >= 0 {
				return end
			}
		}
		state.pending = append(state.pending, '!')
		return pos + 1
	case '[':
		if end := state.parseLink(pos, false); end >= 0 {
			return end
		}
		state.pending = append(state.pending, '[')
		return pos + 1
	case '*', '_':
		return state.parseEmphasis(pos)
	case '\n':
		return state.parseNewline(pos)
	default:
		end := pos + 1
		if i := strings.IndexAny(text[end:], specialChars); i >= 0 {
			end += i
		} else {
			end = len(text)
		}
		state.pending = append(state.pending, text[pos:end]...)
		return end
	}
}

func (state *inlineState) flushText() {
	if len(state.pending) == 0 {
		return
	}
	state.nodes = append(state.nodes, &Inline{
		kind: TextKind,
		text: string(state.pending),
	})
	state.pending = state.pending[:0]
}

func (state *inlineState) add(node *Inline) {
	state.flushText()
	state.nodes = append(state.nodes, node)
}

func entityText(s string) *Inline {
	return &Inline{kind: EntityTextKind, text: s}
}

func (state *inlineState) parseBackslash(pos int) int {
	text := state.text
	if pos+1 >= len(text) || strings.IndexByte(escapableChars, text[pos+1]) < 0 {
		state.pending = append(state.pending, '\\')
		return pos + 1
	}
	if text[pos+1] == '>' {
		state.add(entityText("&gt;"))
	} else {
		state.pending = append(state.pending, text[pos+1])
	}
	return pos + 2
}

// parseNewline handles a line ending.
// Two or more spaces before it produce a hard line break.
// Otherwise, the line ending and surrounding spaces become a single space.
func (state *inlineState) parseNewline(pos int) int {
	trimmed := len(state.pending)
	for trimmed > 0 && state.pending[trimmed-1] == ' ' {
		trimmed--
	}
	spaces := len(state.pending) - trimmed
	state.pending = state.pending[:trimmed]
	if spaces >= 2 {
		state.add(&Inline{kind: LineBreakKind})
	} else {
		state.pending = append(state.pending, ' ')
	}
	end := pos + 1
	for end < len(state.text) && state.text[end] == ' ' {
		end++
	}
	return end
}

func (state *inlineState) parseCodeSpan(pos int) int {
	text := state.text
	n := runLength(text, pos, '`')
	closer := state.codeSpanEnd(pos+n, n)
	if closer < 0 {
		state.pending = append(state.pending, text[pos:pos+n]...)
		return pos + n
	}
	state.add(&Inline{
		kind: CodeSpanKind,
		text: strings.Trim(text[pos+n:closer], " "),
	})
	return closer + n
}

// findCodeSpanEnd returns the start of the first backtick run at or after pos
// with exactly n backticks, or -1 if there is none.
func findCodeSpanEnd(text string, pos int, n int) int {
	for pos < len(text) {
		i := strings.IndexByte(text[pos:], '`')
		if i < 0 {
			return -1
		}
		pos += i
		run := runLength(text, pos, '`')
		if run == n {
			return pos
		}
		pos += run
	}
	return -1
}

// codeSpanEnd is findCodeSpanEnd on the state's text.
// pos must not be inside a backtick run.
// If there is no closing run after pos, there is none after any later pos,
// so misses are remembered per run length.
func (state *inlineState) codeSpanEnd(pos int, n int) int {
	if miss, ok := state.codeSpanMisses[n]; ok && pos >= miss {
		return -1
	}
	end := findCodeSpanEnd(state.text, pos, n)
	if end < 0 {
		if state.codeSpanMisses == nil {
			state.codeSpanMisses = make(map[int]int)
		}
		if miss, ok := state.codeSpanMisses[n]; !ok || pos < miss {
			state.codeSpanMisses[n] = pos
		}
	}
	return end
}

// runLength returns the number of consecutive c bytes starting at pos.
func runLength(text string, pos int, c byte) int {
	n := 0
	for pos+n < len(text) && text[pos+n] == c {
		n++
	}
	return n
}

func (state *inlineState) parseAngle(pos int) int {
	if node, end := parseAutoLink(state.text, pos); node != nil {
		state.add(node)
		return end
	}
	if end := state.htmlTagEnd(pos); end >= 0 {
		state.add(&Inline{
			kind: RawHTMLKind,
			text: state.text[pos:end],
		})
		return end
	}
	state.add(entityText("&lt;"))
	return pos + 1
}

// htmlTagEnd is parseHTMLTag on the state's text.
// An unterminated comment means no later comment is terminated either.
func (state *inlineState) htmlTagEnd(pos int) int {
	isComment := strings.HasPrefix(state.text[pos:], htmlCommentPrefix)
	if isComment && state.commentMiss > 0 && pos >= state.commentMiss-1 {
		return -1
	}
	end := parseHTMLTag(state.text, pos)
	if end < 0 && isComment && (state.commentMiss == 0 || pos < state.commentMiss-1) {
		state.commentMiss = pos + 1
	}
	return end
}

// parseAutoLink parses an automatic link for a URL or email address
// that starts at text[pos], which must be '<'.
func parseAutoLink(text string, pos int) (*Inline, int) {
	end := strings.IndexAny(text[pos+1:], "> \n<")
	if end < 0 || text[pos+1+end] != '>' {
		return nil, -1
	}
	end += pos + 1
	content := text[pos+1 : end]
	if content == "" {
		return nil, -1
	}
	lower := strings.ToLower(content)
	for _, scheme := range []string{"http://", "https://", "ftp://"} {
		if strings.HasPrefix(lower, scheme) && len(content) > len(scheme) && !strings.ContainsAny(content, `'"`) {
			return &Inline{
				kind:   AutoLinkKind,
				text:   content,
				target: LinkDefinition{Destination: content},
			}, end + 1
		}
	}
	addr := content
	if strings.HasPrefix(lower, "mailto:") {
		addr = content[len("mailto:"):]
	}
	if !IsEmailAddress(addr) {
		return nil, -1
	}
	return &Inline{
		kind:   AutoLinkKind,
		text:   addr,
		email:  true,
		target: LinkDefinition{Destination: "mailto:" + addr},
	}, end + 1
}

// IsEmailAddress reports whether the string is an email address
// suitable for an automatic link.
func IsEmailAddress(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	for i := 0; i < at; i++ {
		if c := s[i]; !isWordChar(c) && c != '-' && c != '.' && c != '+' {
			return false
		}
	}
	labels := strings.Split(s[at+1:], ".")
	if len(labels) < 2 {
		return false
	}
	for i, label := range labels {
		if label == "" {
			return false
		}
		for j := 0; j < len(label); j++ {
			c := label[j]
			isLast := i == len(labels)-1
			if !isASCIILetter(c) && (isLast || !isASCIIDigit(c) && c != '-') {
				return false
			}
		}
	}
	return true
}

// entityEnd returns the end of the entity reference starting at text[pos]
// or -1 if text does not contain an entity reference at pos.
func entityEnd(text string, pos int) int {
	i := pos + 1
	limit := min(len(text), pos+maxEntityLength)
	switch {
	case i < limit && text[i] == '#' && i+1 < limit && (text[i+1] == 'x' || text[i+1] == 'X'):
		i += 2
		start := i
		for i < limit && isHexDigit(text[i]) {
			i++
		}
		if i == start {
			return -1
		}
	case i < limit && text[i] == '#':
		i++
		start := i
		for i < limit && isASCIIDigit(text[i]) {
			i++
		}
		if i == start {
			return -1
		}
	case i < limit && isASCIILetter(text[i]):
		for i < limit && (isASCIILetter(text[i]) || isASCIIDigit(text[i])) {
			i++
		}
	default:
		return -1
	}
	if i >= limit || text[i] != ';' {
		return -1
	}
	return i + 1
}

// parseLink attempts to parse a link or image starting at pos.
// It returns the end of the link or -1 if there is no resolvable link at pos.
func (state *inlineState) parseLink(pos int, image bool) int {
	if state.depth >= state.maxNesting() || (state.inLink && !image) {
		return -1
	}
	text := state.text
	open := pos
	if image {
		open++
	}
	closeBracket := state.linkTextEnd(open)
	if closeBracket < 0 {
		return -1
	}
	linkText := text[open+1 : closeBracket]
	def, ref, end, ok := state.linkTarget(linkText, closeBracket+1)
	if !ok {
		return -1
	}

	node := &Inline{
		target: def,
		ref:    ref,
	}
	if image {
		node.kind = ImageKind
		node.text = unescapeBackslashes(linkText)
	} else {
		node.kind = LinkKind
		node.children = state.parse(linkText, state.depth+1, true)
	}
	state.add(node)
	return end
}

// linkTarget parses the portion of a link after its text
// and resolves the link's destination.
// The returned ref is empty for inline links.
func (state *inlineState) linkTarget(linkText string, pos int) (def LinkDefinition, ref string, end int, ok bool) {
	text := state.text
	if pos < len(text) && text[pos] == '(' {
		def, end, ok = state.parseInlineTarget(pos)
		return def, "", end, ok
	}

	labelStart := pos
	if labelStart < len(text) && text[labelStart] == ' ' {
		labelStart++
	}
	if labelStart < len(text) && text[labelStart] == '\n' {
		labelStart++
		for labelStart < len(text) && text[labelStart] == ' ' {
			labelStart++
		}
	}
	if labelStart < len(text) && text[labelStart] == '[' {
		if labelEnd := strings.IndexByte(text[labelStart+1:], ']'); labelEnd >= 0 {
			labelEnd += labelStart + 1
			label := text[labelStart+1 : labelEnd]
			if strings.TrimSpace(label) == "" {
				label = linkText
			}
			if len(label) > maxLabelLength {
				return LinkDefinition{}, "", -1, false
			}
			ref = NormalizeLabel(label)
			def, ok = state.References[ref]
			return def, ref, labelEnd + 1, ok
		}
	}

	// Shortcut reference.
	if len(linkText) > maxLabelLength {
		return LinkDefinition{}, "", -1, false
	}
	ref = NormalizeLabel(linkText)
	if ref == "" {
		return LinkDefinition{}, "", -1, false
	}
	def, ok = state.References[ref]
	return def, ref, pos, ok
}

// linkTextEnd returns the position of the ']' matching the '[' at text[open]
// or -1 if the brackets are unbalanced.
// Escaped brackets and brackets inside code spans are not counted.
// The scan also settles every '[' it passes,
// since a scan started there would see the same brackets.
func (state *inlineState) linkTextEnd(open int) int {
	if end, ok := state.brackets[open]; ok {
		return end
	}
	if state.brackets == nil {
		state.brackets = make(map[int]int)
	}
	text := state.text
	stack := []int{open}
	for i := open + 1; i < len(text) && len(stack) > 0; i++ {
		switch text[i] {
		case '\\':
			i++
		case '`':
			n := runLength(text, i, '`')
			if end := state.codeSpanEnd(i+n, n); end >= 0 {
				i = end + n - 1
			} else {
				i += n - 1
			}
		case '[':
			stack = append(stack, i)
		case ']':
			state.brackets[stack[len(stack)-1]] = i
			stack = stack[:len(stack)-1]
		}
	}
	for _, unmatched := range stack {
		state.brackets[unmatched] = -1
	}
	return state.brackets[open]
}

// parseInlineTarget parses a parenthesized destination and optional title
// starting at text[pos], which must be '('.
func (state *inlineState) parseInlineTarget(pos int) (def LinkDefinition, end int, ok bool) {
	text := state.text
	i := skipLinkSpace(text, pos+1)
	if i < len(text) && text[i] == '<' {
		gt := state.indexByte(i, '>')
		if gt < 0 {
			return LinkDefinition{}, -1, false
		}
		def.Destination = text[i+1 : gt]
		i = gt + 1
	} else {
		// The destination ends at the first unescaped space or newline
		// or at the parenthesis matching the opening one.
		if state.targets == nil {
			state.targets = newTargetIndex(text)
		}
		start := i
		i = state.targets.spaceAfter[start]
		if closeParen, ok := state.targets.parenMatch[pos]; ok && closeParen < i {
			i = closeParen
		}
		def.Destination = text[start:i]
	}

	i = skipLinkSpace(text, i)
	if i >= len(text) {
		return LinkDefinition{}, -1, false
	}
	if text[i] == ')' {
		return def, i + 1, true
	}
	quote := text[i]
	if quote != '"' && quote != '\'' {
		return LinkDefinition{}, -1, false
	}
	if miss, ok := state.titleMisses[quote]; ok && i >= miss {
		return LinkDefinition{}, -1, false
	}
	for j := i + 1; j < len(text); j++ {
		if text[j] != quote {
			continue
		}
		if k := skipLinkSpace(text, j+1); k < len(text) && text[k] == ')' {
			def.Title = text[i+1 : j]
			def.TitlePresent = true
			return def, k + 1, true
		}
	}
	if state.titleMisses == nil {
		state.titleMisses = make(map[byte]int)
	}
	if miss, ok := state.titleMisses[quote]; !ok || i < miss {
		state.titleMisses[quote] = i
	}
	return LinkDefinition{}, -1, false
}

// indexByte returns the position of the first c at or after pos in the text
// or -1 if there is none.
// The last search for each byte is reused
// when pos lies between its start and its result.
func (state *inlineState) indexByte(pos int, c byte) int {
	if prev, ok := state.found[c]; ok && prev.from <= pos && (prev.at < 0 || pos <= prev.at) {
		return prev.at
	}
	at := strings.IndexByte(state.text[pos:], c)
	if at >= 0 {
		at += pos
	}
	if state.found == nil {
		state.found = make(map[byte]bytePos)
	}
	state.found[c] = bytePos{from: pos, at: at}
	return at
}

// targetIndex locates the ends of unbracketed link destinations.
type targetIndex struct {
	// spaceAfter[i] is the position of the first unescaped space or newline
	// at or after i, or len(text) if there is none.
	spaceAfter []int
	// parenMatch maps the position of an unescaped '('
	// to the position of its matching ')'.
	parenMatch map[int]int
}

func newTargetIndex(text string) *targetIndex {
	idx := &targetIndex{
		spaceAfter: make([]int, len(text)+1),
		parenMatch: make(map[int]int),
	}
	escaped := make([]bool, len(text))
	var open []int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if i+1 < len(text) {
				escaped[i+1] = true
			}
			i++
		case '(':
			open = append(open, i)
		case ')':
			if len(open) > 0 {
				idx.parenMatch[open[len(open)-1]] = i
				open = open[:len(open)-1]
			}
		}
	}
	idx.spaceAfter[len(text)] = len(text)
	for i := len(text) - 1; i >= 0; i-- {
		if (text[i] == ' ' || text[i] == '\n') && !escaped[i] {
			idx.spaceAfter[i] = i
		} else {
			idx.spaceAfter[i] = idx.spaceAfter[i+1]
		}
	}
	return idx
}

func skipLinkSpace(text string, pos int) int {
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\n') {
		pos++
	}
	return pos
}

// unescapeBackslashes removes the backslash from escaped characters.
func unescapeBackslashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	sb := new(strings.Builder)
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte(escapableChars, s[i+1]) >= 0 {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// parseEmphasis handles a run of '*' or '_' delimiters at pos.
//
// A run of length k opens emphasis of [EmphasisType] k
// that is closed by the next run of the same character
// with at least k characters that is preceded by a non-space.
// The longest type is tried first.
// Delimiters that are not used are kept as literal text.
func (state *inlineState) parseEmphasis(pos int) int {
	text := state.text
	c := text[pos]
	n := runLength(text, pos, c)
	after := pos + n
	if state.depth >= state.maxNesting() || !canOpenEmphasis(text, pos, n) {
		state.pending = append(state.pending, text[pos:after]...)
		return after
	}
	for k := min(n, 3); k > 0; k-- {
		closer := state.findEmphasisCloser(after, c, k, emphasisSkipBudget)
		if closer < 0 {
			continue
		}
		state.pending = append(state.pending, text[pos:after-k]...)
		state.add(&Inline{
			kind:     EmphasisKind,
			emphasis: EmphasisType(k),
			children: state.parse(text[after:closer], state.depth+1, state.inLink),
		})
		return closer + k
	}
	state.pending = append(state.pending, text[pos:after]...)
	return after
}

// emphasisSkipBudget limits how deeply findEmphasisCloser
// looks for nested spans to skip.
const emphasisSkipBudget = 3

// canOpenEmphasis reports whether the delimiter run text[pos:pos+n]
// can open emphasis.
func canOpenEmphasis(text string, pos, n int) bool {
	after := pos + n
	if after >= len(text) || isSpaceByte(text[after]) {
		return false
	}
	return text[pos] != '_' || !isIntraword(text, pos, n)
}

// canCloseEmphasis reports whether the delimiter run text[pos:pos+n]
// can close emphasis.
func canCloseEmphasis(text string, pos, n int) bool {
	if pos == 0 || isSpaceByte(text[pos-1]) {
		return false
	}
	return text[pos] != '_' || !isIntraword(text, pos, n)
}

// isIntraword reports whether the run text[pos:pos+n]
// has word characters on both sides.
func isIntraword(text string, pos, n int) bool {
	return pos > 0 && isWordChar(text[pos-1]) &&
		pos+n < len(text) && isWordChar(text[pos+n])
}

// findEmphasisCloser returns the start of the delimiter run
// that closes emphasis of length k opened by c,
// searching from pos.
// Code spans, escapes, tags, and nested emphasis spans are skipped.
// It returns -1 if there is no such run.
//
// The scan moves between positions independently of where it started,
// so every position it visits shares its result.
// Results are remembered at the start and at each delimiter run.
func (state *inlineState) findEmphasisCloser(pos int, c byte, k int, budget int) int {
	if state.closers == nil {
		state.closers = make(map[emphasisCloserKey]int)
	}
	text := state.text
	var visited []int
	result := -1
	for i := pos; i < len(text); {
		if i == pos || text[i] == '*' || text[i] == '_' {
			if r, ok := state.closers[emphasisCloserKey{from: i, c: c, k: k, budget: budget}]; ok {
				result = r
				break
			}
			visited = append(visited, i)
		}
		next, found := state.emphasisScanStep(i, c, k, budget)
		if found {
			result = i
			break
		}
		i = next
	}
	for _, i := range visited {
		state.closers[emphasisCloserKey{from: i, c: c, k: k, budget: budget}] = result
	}
	return result
}

// emphasisScanStep reports whether text[i] starts the closing run
// for findEmphasisCloser and otherwise returns the next position to scan.
func (state *inlineState) emphasisScanStep(i int, c byte, k int, budget int) (next int, found bool) {
	text := state.text
	switch ch := text[i]; ch {
	case '\\':
		return i + 2, false
	case '`':
		n := runLength(text, i, '`')
		if end := state.codeSpanEnd(i+n, n); end >= 0 {
			return end + n, false
		}
		return i + n, false
	case '<':
		if _, end := parseAutoLink(text, i); end >= 0 {
			return end, false
		}
		if end := state.htmlTagEnd(i); end >= 0 {
			return end, false
		}
		return i + 1, false
	case '*', '_':
		n := runLength(text, i, ch)
		if ch == c && n >= k && canCloseEmphasis(text, i, n) {
			return i, true
		}
		if budget > 0 && canOpenEmphasis(text, i, n) {
			nestedK := min(n, 3)
			if nested := state.findEmphasisCloser(i+n, ch, nestedK, budget-1); nested >= 0 {
				return nested + nestedK, false
			}
		}
		return i + n, false
	default:
		return i + 1, false
	}
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\n'
}

// isWordChar reports whether c is part of a word.
// Bytes of multi-byte UTF-8 sequences are considered word characters.
func isWordChar(c byte) bool {
	return isASCIILetter(c) || isASCIIDigit(c) || c == '_' || c >= 0x80
}

func isHexDigit(c byte) bool {
	return isASCIIDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
