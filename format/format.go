// Copyright 2024 Ross Light
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

// Package format provides a function to format a Markdown document
// as Markdown text that parses to an equivalent document.
package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go4.org/bytereplacer"
	"zombiezen.com/go/markdown"
)

// Format writes the given document as Markdown to the given writer.
// Headers are written in the "#" style,
// list items are indented by four columns,
// reference-style links are kept as reference-style links,
// and every reference definition is written at the end of the document.
func Format(w io.Writer, doc *markdown.Document) error {
	f := &formatter{w: &errWriter{w: w}}
	if err := markdown.Dispatch(doc, f); err != nil {
		return fmt.Errorf("format markdown: %w", err)
	}
	if f.w.err != nil {
		return fmt.Errorf("format markdown: %w", f.w.err)
	}
	return nil
}

var (
	// textEscaper escapes characters that could start an inline construct
	// or end a header.
	textEscaper = bytereplacer.New(
		`\`, `\\`,
		"`", "\\`",
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"#", `\#`,
	)
	// altTextEscaper escapes characters that would change
	// where an image's alternate text ends.
	altTextEscaper = bytereplacer.New(
		`\`, `\\`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
	)
)

// indent is the line prefix contributed by one container.
type indent struct {
	// first is written at the start of the container's first line.
	first string
	// rest is written at the start of the following lines.
	rest string
	used bool
}

type formatter struct {
	w       *errWriter
	indents []*indent
	// lineStart is true if nothing has been written on the current line,
	// including indents.
	lineStart bool
	// blank is true if the next block must be preceded by a blank line.
	blank bool
	// items holds the next item number of each enclosing list.
	// Unordered lists hold -1.
	items []int
	// emphasis holds the delimiter of each enclosing emphasis span.
	emphasis []byte
}

func (f *formatter) write(s string) {
	for len(s) > 0 {
		if f.lineStart {
			f.writeIndent(strings.HasPrefix(s, "\n"))
			f.lineStart = false
		}
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			f.w.WriteString(s)
			return
		}
		f.w.WriteString(s[:i+1])
		f.lineStart = true
		s = s[i+1:]
	}
}

// writeIndent writes the prefix of every enclosing container.
// Blank lines get their trailing spaces trimmed.
func (f *formatter) writeIndent(blankLine bool) {
	sb := new(strings.Builder)
	for _, ind := range f.indents {
		if ind.used {
			sb.WriteString(ind.rest)
		} else {
			sb.WriteString(ind.first)
			ind.used = true
		}
	}
	prefix := sb.String()
	if blankLine {
		prefix = strings.TrimRight(prefix, " ")
	}
	f.w.WriteString(prefix)
}

func (f *formatter) pushIndent(first, rest string) {
	f.indents = append(f.indents, &indent{first: first, rest: rest})
}

func (f *formatter) popIndent() {
	f.indents = f.indents[:len(f.indents)-1]
}

// beginBlock separates a new block from the content before it.
func (f *formatter) beginBlock() {
	if !f.lineStart {
		f.write("\n")
	}
	if f.blank {
		f.write("\n")
		f.blank = false
	}
}

// endBlock finishes the current line of a block.
func (f *formatter) endBlock() {
	if !f.lineStart {
		f.write("\n")
	}
	f.blank = true
}

func (f *formatter) VisitDocument(doc *markdown.Document, entering bool) error {
	if entering {
		f.lineStart = true
		return nil
	}
	labels := make([]string, 0, len(doc.References))
	for label := range doc.References {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for i, label := range labels {
		if i == 0 {
			f.beginBlock()
		}
		def := doc.References[label]
		f.write("[" + label + "]: " + formatDestination(def.Destination))
		if def.TitlePresent {
			f.write(" " + formatTitle(def.Title))
		}
		f.write("\n")
	}
	return f.w.err
}

func (f *formatter) VisitHeader(b *markdown.Block, entering bool) error {
	if entering {
		f.beginBlock()
		f.write(strings.Repeat("#", b.HeaderLevel()) + " ")
	} else {
		f.endBlock()
	}
	return f.w.err
}

func (f *formatter) VisitParagraph(b *markdown.Block, entering bool) error {
	if entering {
		f.beginBlock()
	} else {
		f.endBlock()
	}
	return f.w.err
}

func (f *formatter) VisitBlockquote(b *markdown.Block, entering bool) error {
	if entering {
		f.beginBlock()
		f.pushIndent("> ", "> ")
	} else {
		f.popIndent()
		f.endBlock()
	}
	return f.w.err
}

func (f *formatter) VisitUnorderedList(b *markdown.Block, entering bool) error {
	return f.list(-1, entering)
}

func (f *formatter) VisitOrderedList(b *markdown.Block, entering bool) error {
	return f.list(b.ListStart(), entering)
}

func (f *formatter) list(start int, entering bool) error {
	if entering {
		f.beginBlock()
		f.items = append(f.items, start)
	} else {
		f.items = f.items[:len(f.items)-1]
		f.endBlock()
	}
	return f.w.err
}

func (f *formatter) VisitListItem(b *markdown.Block, entering bool) error {
	if !entering {
		f.popIndent()
		f.endBlock()
		if b.IsTight() {
			f.blank = false
		}
		return f.w.err
	}

	f.beginBlock()
	marker := "-"
	if n := f.items[len(f.items)-1]; n >= 0 {
		marker = fmt.Sprintf("%d.", n)
		f.items[len(f.items)-1]++
	}
	marker += strings.Repeat(" ", max(4-len(marker), 1))
	f.pushIndent(marker, strings.Repeat(" ", len(marker)))
	return f.w.err
}

func (f *formatter) VisitCodeBlock(b *markdown.Block) error {
	f.beginBlock()
	f.pushIndent("    ", "    ")
	f.write(b.Literal())
	f.popIndent()
	f.endBlock()
	return f.w.err
}

func (f *formatter) VisitHorizontalRule(b *markdown.Block) error {
	f.beginBlock()
	f.write("* * *")
	f.endBlock()
	return f.w.err
}

func (f *formatter) VisitRawHTMLBlock(b *markdown.Block) error {
	f.beginBlock()
	f.write(b.Literal())
	f.endBlock()
	return f.w.err
}

func (f *formatter) VisitText(inline *markdown.Inline) error {
	text := string(textEscaper.Replace([]byte(inline.Text())))
	if f.lineStart {
		text = escapeLineStart(text)
	}
	f.write(text)
	return f.w.err
}

// escapeLineStart escapes a list marker at the start of a line.
// Other block markers are escaped by textEscaper
// or cannot occur in text.
func escapeLineStart(text string) string {
	if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
		return `\` + text
	}
	digits := 0
	for digits < len(text) && '0' <= text[digits] && text[digits] <= '9' {
		digits++
	}
	if digits > 0 && strings.HasPrefix(text[digits:], ".") {
		return text[:digits] + `\` + text[digits:]
	}
	return text
}

func (f *formatter) VisitEmphasis(inline *markdown.Inline, entering bool) error {
	n := int(inline.EmphasisType())
	var c byte
	if entering {
		// Alternate delimiters so that nested spans
		// don't merge with their parent's delimiter run.
		c = '*'
		if len(f.emphasis) > 0 && f.emphasis[len(f.emphasis)-1] == '*' {
			c = '_'
		}
		f.emphasis = append(f.emphasis, c)
	} else {
		c = f.emphasis[len(f.emphasis)-1]
		f.emphasis = f.emphasis[:len(f.emphasis)-1]
	}
	f.write(strings.Repeat(string(c), n))
	return f.w.err
}

func (f *formatter) VisitCodeSpan(inline *markdown.Inline) error {
	text := inline.Text()
	fence := strings.Repeat("`", codeSpanFenceLength(text))
	pad := ""
	if strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") {
		pad = " "
	}
	f.write(fence + pad + text + pad + fence)
	return f.w.err
}

// codeSpanFenceLength returns the length of the shortest backtick run
// that does not occur in text.
func codeSpanFenceLength(text string) int {
	runs := make(map[int]bool)
	for i := 0; i < len(text); {
		if text[i] != '`' {
			i++
			continue
		}
		n := 1
		for i+n < len(text) && text[i+n] == '`' {
			n++
		}
		runs[n] = true
		i += n
	}
	n := 1
	for runs[n] {
		n++
	}
	return n
}

func (f *formatter) VisitLink(inline *markdown.Inline, entering bool) error {
	if entering {
		f.write("[")
		return f.w.err
	}
	f.write("]")
	f.writeTarget(inline)
	return f.w.err
}

func (f *formatter) VisitImage(inline *markdown.Inline) error {
	f.write("![" + string(altTextEscaper.Replace([]byte(inline.AltText()))) + "]")
	f.writeTarget(inline)
	return f.w.err
}

func (f *formatter) writeTarget(inline *markdown.Inline) {
	if ref := inline.ReferenceLabel(); ref != "" {
		f.write("[" + ref + "]")
		return
	}
	target := inline.Target()
	f.write("(" + formatDestination(target.Destination))
	if target.TitlePresent {
		f.write(" " + formatTitle(target.Title))
	}
	f.write(")")
}

func formatDestination(dst string) string {
	if strings.ContainsAny(dst, " \n") {
		return "<" + dst + ">"
	}
	return dst
}

func formatTitle(title string) string {
	if strings.Contains(title, `"`) && !strings.Contains(title, "'") {
		return "'" + title + "'"
	}
	return `"` + title + `"`
}

func (f *formatter) VisitAutoLink(inline *markdown.Inline) error {
	f.write("<" + inline.Text() + ">")
	return f.w.err
}

func (f *formatter) VisitRawHTML(inline *markdown.Inline) error {
	f.write(inline.Text())
	return f.w.err
}

func (f *formatter) VisitLineBreak(inline *markdown.Inline) error {
	f.write("  \n")
	return f.w.err
}

func (f *formatter) VisitEntityText(inline *markdown.Inline) error {
	f.write(inline.Text())
	return f.w.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	return n, w.err
}
