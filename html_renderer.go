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
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"go4.org/bytereplacer"
	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts fully parsed Markdown documents into HTML.
//
// # Security considerations
//
// Markdown permits the use of raw HTML, which can introduce
// [Cross-Site Scripting (XSS)] vulnerabilities
// when used with untrusted inputs.
// There are a few options to mitigate this risk:
//
//   - The resulting HTML can be sent through an HTML sanitizer.
//     This is highly recommended.
//   - Set IgnoreRaw to prevent inclusion of raw HTML.
//     This eliminates any raw HTML usage,
//     so the output is guaranteed to use a fixed set of elements.
//     However, this can lead to content being omitted from the document entirely,
//     which may be surprising to end-users for legitimate use cases.
//   - FilterTag can be used to prevent some tags from being used
//     while still showing the source text.
//     For untrusted inputs, this technique should be combined with sanitization.
//
// [Cross-Site Scripting (XSS)]: https://owasp.org/www-community/attacks/xss/
type HTMLRenderer struct {
	// If XHTML is true, empty elements are written in self-closing form
	// (e.g. "<br />" instead of "<br>").
	XHTML bool
	// If IgnoreRaw is true, the renderer skips any raw HTML blocks or inline raw HTML.
	IgnoreRaw bool
	// FilterTag is a predicate function
	// that reports whether an element with the given lowercased tag name
	// should have its leading angle bracket escaped.
	// FilterTag applies to the elements the renderer writes itself
	// as well as to raw HTML.
	// If FilterTag is nil, then no filtering will occur.
	//
	// FilterTag functions must not modify the byte slice
	// nor retain the slice after the function returns.
	FilterTag func(tag []byte) bool
	// If ObfuscateEmail is true, email automatic links are written
	// with every character as a numeric character reference.
	ObfuscateEmail bool
}

// RenderHTML writes the given document to the given writer as HTML
// using the default options for [HTMLRenderer].
// It will return the first error encountered, if any.
func RenderHTML(w io.Writer, doc *Document) error {
	return new(HTMLRenderer).Render(w, doc)
}

// Render writes the given document to the given writer as HTML.
// Top-level blocks are separated by a blank line.
// It will return the first error encountered, if any.
func (r *HTMLRenderer) Render(w io.Writer, doc *Document) error {
	state := &renderState{
		HTMLRenderer: r,
		w:            w,
	}
	if err := Dispatch(doc, state); err != nil {
		return fmt.Errorf("render markdown to html: %w", err)
	}
	return nil
}

var (
	htmlTextEscaper = bytereplacer.New(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	htmlAttributeEscaper = bytereplacer.New(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
		"'", "&#39;",
	)
)

// renderState is the [Visitor] used by [*HTMLRenderer.Render].
// Output is buffered in dst and written after each top-level block.
type renderState struct {
	*HTMLRenderer
	w        io.Writer
	dst      []byte
	depth    int
	blocks   int
	lowerBuf []byte

	// inTightItem is true while rendering the content of a tight list item.
	inTightItem bool
	itemStack   []bool
}

// beginBlock starts a block-level element.
func (r *renderState) beginBlock() {
	if r.depth == 0 && r.blocks > 0 {
		r.dst = append(r.dst, '\n')
	}
	if len(r.dst) > 0 && r.dst[len(r.dst)-1] != '\n' {
		r.dst = append(r.dst, '\n')
	}
	r.depth++
}

// endBlock finishes a block-level element,
// writing the output if it was a top-level block.
func (r *renderState) endBlock() error {
	r.dst = append(r.dst, '\n')
	r.depth--
	if r.depth > 0 {
		return nil
	}
	r.blocks++
	_, err := r.w.Write(r.dst)
	r.dst = r.dst[:0]
	return err
}

func (r *renderState) openTagAttr(name atom.Atom) {
	start := len(r.dst)
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(r.dst[start+1:]) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;"...)
		r.dst = append(r.dst, name.String()...)
	}
}

func (r *renderState) openTag(name atom.Atom) {
	r.openTagAttr(name)
	r.dst = append(r.dst, '>')
}

func (r *renderState) closeTag(name atom.Atom) {
	start := len(r.dst)
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(r.dst[start+2:]) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;/"...)
		r.dst = append(r.dst, name.String()...)
	}
	r.dst = append(r.dst, '>')
}

// endEmptyTag finishes the start tag of an element with no content.
func (r *renderState) endEmptyTag() {
	if r.XHTML {
		r.dst = append(r.dst, " />"...)
	} else {
		r.dst = append(r.dst, '>')
	}
}

func (r *renderState) attr(name, value string) {
	r.dst = append(r.dst, ' ')
	r.dst = append(r.dst, name...)
	r.dst = append(r.dst, `="`...)
	r.dst = append(r.dst, htmlAttributeEscaper.Replace([]byte(value))...)
	r.dst = append(r.dst, '"')
}

func (r *renderState) text(s string) {
	r.dst = append(r.dst, htmlTextEscaper.Replace([]byte(s))...)
}

func (r *renderState) VisitDocument(doc *Document, entering bool) error {
	return nil
}

func (r *renderState) VisitHeader(b *Block, entering bool) error {
	tagName := headerTags[b.HeaderLevel()-1]
	if entering {
		r.beginBlock()
		r.openTag(tagName)
		return nil
	}
	r.closeTag(tagName)
	return r.endBlock()
}

var headerTags = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func (r *renderState) VisitParagraph(b *Block, entering bool) error {
	// Paragraphs in tight list items are written without tags.
	tight := r.depth > 0 && r.inTightItem
	if entering {
		if !tight {
			r.beginBlock()
			r.openTag(atom.P)
		}
		return nil
	}
	if tight {
		return nil
	}
	r.closeTag(atom.P)
	return r.endBlock()
}

func (r *renderState) VisitBlockquote(b *Block, entering bool) error {
	return r.container(atom.Blockquote, entering)
}

func (r *renderState) VisitUnorderedList(b *Block, entering bool) error {
	return r.container(atom.Ul, entering)
}

func (r *renderState) VisitOrderedList(b *Block, entering bool) error {
	return r.container(atom.Ol, entering)
}

// container writes the tags for a block that only contains blocks.
func (r *renderState) container(tagName atom.Atom, entering bool) error {
	if entering {
		r.beginBlock()
		r.openTag(tagName)
		r.dst = append(r.dst, '\n')
		r.itemStack = append(r.itemStack, r.inTightItem)
		r.inTightItem = false
		return nil
	}
	r.inTightItem = r.itemStack[len(r.itemStack)-1]
	r.itemStack = r.itemStack[:len(r.itemStack)-1]
	r.closeTag(tagName)
	return r.endBlock()
}

func (r *renderState) VisitListItem(b *Block, entering bool) error {
	if entering {
		r.beginBlock()
		r.openTag(atom.Li)
		r.inTightItem = b.IsTight()
		return nil
	}
	r.inTightItem = false
	r.closeTag(atom.Li)
	return r.endBlock()
}

func (r *renderState) VisitCodeBlock(b *Block) error {
	r.beginBlock()
	r.openTag(atom.Pre)
	r.openTag(atom.Code)
	r.text(b.Literal())
	r.closeTag(atom.Code)
	r.closeTag(atom.Pre)
	return r.endBlock()
}

func (r *renderState) VisitHorizontalRule(b *Block) error {
	r.beginBlock()
	r.openTagAttr(atom.Hr)
	r.endEmptyTag()
	return r.endBlock()
}

func (r *renderState) VisitRawHTMLBlock(b *Block) error {
	if r.IgnoreRaw {
		return nil
	}
	r.beginBlock()
	r.raw(strings.TrimSuffix(b.Literal(), "\n"))
	return r.endBlock()
}

func (r *renderState) VisitText(inline *Inline) error {
	r.text(inline.Text())
	return nil
}

func (r *renderState) VisitEmphasis(inline *Inline, entering bool) error {
	if entering {
		switch inline.EmphasisType() {
		case Italic:
			r.openTag(atom.Em)
		case Bold:
			r.openTag(atom.Strong)
		default:
			r.openTag(atom.Strong)
			r.openTag(atom.Em)
		}
		return nil
	}
	switch inline.EmphasisType() {
	case Italic:
		r.closeTag(atom.Em)
	case Bold:
		r.closeTag(atom.Strong)
	default:
		r.closeTag(atom.Em)
		r.closeTag(atom.Strong)
	}
	return nil
}

func (r *renderState) VisitCodeSpan(inline *Inline) error {
	r.openTag(atom.Code)
	r.text(inline.Text())
	r.closeTag(atom.Code)
	return nil
}

func (r *renderState) VisitLink(inline *Inline, entering bool) error {
	if !entering {
		r.closeTag(atom.A)
		return nil
	}
	def := inline.Target()
	r.openTagAttr(atom.A)
	r.attr("href", NormalizeURI(def.Destination))
	if def.TitlePresent {
		r.attr("title", def.Title)
	}
	r.dst = append(r.dst, '>')
	return nil
}

func (r *renderState) VisitImage(inline *Inline) error {
	def := inline.Target()
	r.openTagAttr(atom.Img)
	r.attr("src", NormalizeURI(def.Destination))
	r.attr("alt", inline.AltText())
	if def.TitlePresent {
		r.attr("title", def.Title)
	}
	r.endEmptyTag()
	return nil
}

func (r *renderState) VisitAutoLink(inline *Inline) error {
	def := inline.Target()
	r.openTagAttr(atom.A)
	if inline.IsEmail() && r.ObfuscateEmail {
		r.dst = append(r.dst, ` href="`...)
		r.dst = appendObfuscated(r.dst, def.Destination)
		r.dst = append(r.dst, `">`...)
		r.dst = appendObfuscated(r.dst, inline.Text())
	} else {
		r.attr("href", NormalizeURI(def.Destination))
		r.dst = append(r.dst, '>')
		r.text(inline.Text())
	}
	r.closeTag(atom.A)
	return nil
}

func (r *renderState) VisitRawHTML(inline *Inline) error {
	if !r.IgnoreRaw {
		r.raw(inline.Text())
	}
	return nil
}

func (r *renderState) VisitLineBreak(inline *Inline) error {
	r.openTagAttr(atom.Br)
	r.endEmptyTag()
	r.dst = append(r.dst, '\n')
	return nil
}

func (r *renderState) VisitEntityText(inline *Inline) error {
	r.dst = append(r.dst, inline.Text()...)
	return nil
}

// raw appends raw HTML, applying FilterTag if present.
func (r *renderState) raw(rawHTML string) {
	if r.FilterTag == nil {
		r.dst = append(r.dst, rawHTML...)
		return
	}
	r.filterRaw(rawHTML)
}

// filterRaw performs the tag filtering
// described in https://github.github.com/gfm/#disallowed-raw-html-extension-.
//
// It cannot use a conventional HTML parser,
// since raw HTML in Markdown may be incomplete.
func (r *renderState) filterRaw(rawHTML string) {
	copyStart := 0
	for i := 0; i < len(rawHTML); {
		if rawHTML[i] != '<' {
			i++
			continue
		}
		if strings.HasPrefix(rawHTML[i:], htmlCommentPrefix) {
			end := strings.Index(rawHTML[i+len(htmlCommentPrefix):], htmlCommentSuffix)
			if end < 0 {
				break
			}
			i += len(htmlCommentPrefix) + end + len(htmlCommentSuffix)
			continue
		}
		tagNameStart := i + 1
		if tagNameStart < len(rawHTML) && rawHTML[tagNameStart] == '/' {
			tagNameStart++
		}
		tagNameEnd := tagNameStart + htmlTagNameEnd(rawHTML[tagNameStart:])
		if tagNameEnd > tagNameStart && r.FilterTag(maybeLower(rawHTML[tagNameStart:tagNameEnd], &r.lowerBuf)) {
			r.dst = append(r.dst, rawHTML[copyStart:i]...)
			r.dst = append(r.dst, "&lt;"...)
			copyStart = i + 1
		}
		i = tagNameEnd
		if i == tagNameStart {
			i++
		}
	}
	r.dst = append(r.dst, rawHTML[copyStart:]...)
}

func maybeLower(x string, buf *[]byte) []byte {
	*buf = (*buf)[:0]
	for i := 0; i < len(x); i++ {
		b := x[i]
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		*buf = append(*buf, b)
	}
	return *buf
}

// appendObfuscated appends s with every character written
// as a numeric character reference,
// alternating between decimal and hexadecimal forms.
func appendObfuscated(dst []byte, s string) []byte {
	i := 0
	for _, c := range s {
		if i%2 == 0 {
			dst = append(dst, "&#"...)
			dst = strconv.AppendInt(dst, int64(c), 10)
		} else {
			dst = append(dst, "&#x"...)
			dst = strconv.AppendInt(dst, int64(c), 16)
		}
		dst = append(dst, ';')
		i++
	}
	return dst
}

// FilterTagGFM performs the same tag filtering as the
// GitHub Flavored Markdown [tagfilter extension].
// It is suitable for use as the FilterTag field in [HTMLRenderer].
//
// [tagfilter extension]: https://github.github.com/gfm/#disallowed-raw-html-extension-
func FilterTagGFM(tag []byte) bool {
	switch atom.Lookup(tag) {
	case atom.Title, atom.Textarea, atom.Style, atom.Xmp, atom.Iframe,
		atom.Noembed, atom.Noframes, atom.Script, atom.Plaintext:
		return true
	default:
		return false
	}
}

// NormalizeURI percent-encodes any characters in a string
// that are not reserved or unreserved URI characters.
// This is commonly used for transforming link destinations
// into strings suitable for href or src attributes.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case (c < 0x80 && (isASCIILetter(byte(c)) || isASCIIDigit(byte(c)))) || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	case x < 0x10:
		return 'A' + x - 0xa
	default:
		panic("out of bounds")
	}
}
