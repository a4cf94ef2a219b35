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

// Package docbook renders Markdown documents as [DocBook] 5 XML.
//
// Headers are written as bridgeheads rather than nested sections,
// since Markdown headers do not delimit content.
// Horizontal rules have no DocBook equivalent and are omitted.
// Raw HTML is written as escaped program listings or literals.
//
// [DocBook]: https://docbook.org/
package docbook

import (
	"fmt"
	"io"
	"strconv"

	"go4.org/bytereplacer"
	"zombiezen.com/go/markdown"
)

const (
	docbookNamespace = "http://docbook.org/ns/docbook"
	xlinkNamespace   = "http://www.w3.org/1999/xlink"
)

// A Renderer converts fully parsed Markdown documents into DocBook.
type Renderer struct {
	// Root is the name of the document element.
	// If Root is empty, "article" is used.
	Root string
	// If Title is not empty, it is written as the document element's title.
	Title string
}

// Render writes the given document to the given writer as DocBook
// using the default options for [Renderer].
func Render(w io.Writer, doc *markdown.Document) error {
	return new(Renderer).Render(w, doc)
}

// Render writes the given document to the given writer as DocBook.
// It will return the first error encountered, if any.
func (r *Renderer) Render(w io.Writer, doc *markdown.Document) error {
	state := &renderState{
		Renderer: r,
		w:        w,
	}
	if err := markdown.Dispatch(doc, state); err != nil {
		return fmt.Errorf("render markdown to docbook: %w", err)
	}
	return nil
}

func (r *Renderer) root() string {
	if r.Root == "" {
		return "article"
	}
	return r.Root
}

var (
	textEscaper = bytereplacer.New(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attributeEscaper = bytereplacer.New(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
)

// renderState is the [markdown.Visitor] used by [*Renderer.Render].
// Output is buffered in dst and written after each top-level block.
type renderState struct {
	*Renderer
	w     io.Writer
	dst   []byte
	depth int
	// itemPara is true while the paragraph holding
	// a tight list item's text is open.
	itemPara bool
}

func (r *renderState) flush() error {
	_, err := r.w.Write(r.dst)
	r.dst = r.dst[:0]
	return err
}

func (r *renderState) beginBlock() {
	r.closeItemPara()
	r.depth++
}

func (r *renderState) endBlock() error {
	r.dst = append(r.dst, '\n')
	r.depth--
	if r.depth > 0 {
		return nil
	}
	return r.flush()
}

func (r *renderState) closeItemPara() {
	if r.itemPara {
		r.dst = append(r.dst, "</para>\n"...)
		r.itemPara = false
	}
}

func (r *renderState) openTag(name string, attrs ...string) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name...)
	for i := 0; i+1 < len(attrs); i += 2 {
		r.dst = append(r.dst, ' ')
		r.dst = append(r.dst, attrs[i]...)
		r.dst = append(r.dst, `="`...)
		r.dst = append(r.dst, attributeEscaper.Replace([]byte(attrs[i+1]))...)
		r.dst = append(r.dst, '"')
	}
	r.dst = append(r.dst, '>')
}

func (r *renderState) closeTag(name string) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) text(s string) {
	r.dst = append(r.dst, textEscaper.Replace([]byte(s))...)
}

func (r *renderState) VisitDocument(doc *markdown.Document, entering bool) error {
	if !entering {
		r.closeTag(r.root())
		r.dst = append(r.dst, '\n')
		return r.flush()
	}
	r.dst = append(r.dst, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"...)
	r.openTag(r.root(),
		"xmlns", docbookNamespace,
		"xmlns:xlink", xlinkNamespace,
		"version", "5.0",
	)
	r.dst = append(r.dst, '\n')
	if r.Title != "" {
		r.openTag("title")
		r.text(r.Title)
		r.closeTag("title")
		r.dst = append(r.dst, '\n')
	}
	return nil
}

func (r *renderState) VisitHeader(b *markdown.Block, entering bool) error {
	if entering {
		r.beginBlock()
		// DocBook only defines section levels 1 through 5.
		level := min(b.HeaderLevel(), 5)
		r.openTag("bridgehead", "renderas", "sect"+strconv.Itoa(level))
		return nil
	}
	r.closeTag("bridgehead")
	return r.endBlock()
}

func (r *renderState) VisitParagraph(b *markdown.Block, entering bool) error {
	if entering {
		r.beginBlock()
		r.openTag("para")
		return nil
	}
	r.closeTag("para")
	return r.endBlock()
}

func (r *renderState) VisitBlockquote(b *markdown.Block, entering bool) error {
	return r.container("blockquote", entering)
}

func (r *renderState) VisitUnorderedList(b *markdown.Block, entering bool) error {
	return r.container("itemizedlist", entering, "spacing", listSpacing(b))
}

func (r *renderState) VisitOrderedList(b *markdown.Block, entering bool) error {
	attrs := []string{"spacing", listSpacing(b)}
	if start := b.ListStart(); start != 1 {
		attrs = append(attrs, "startingnumber", strconv.Itoa(start))
	}
	return r.container("orderedlist", entering, attrs...)
}

func listSpacing(b *markdown.Block) string {
	if b.IsTight() {
		return "compact"
	}
	return "normal"
}

func (r *renderState) VisitListItem(b *markdown.Block, entering bool) error {
	if err := r.container("listitem", entering); err != nil || !entering {
		return err
	}
	// List items can only hold blocks,
	// so the text of a tight item is wrapped in a paragraph.
	if len(b.InlineChildren()) > 0 {
		r.openTag("para")
		r.itemPara = true
	}
	return nil
}

// container writes the tags for a block that contains other blocks.
func (r *renderState) container(name string, entering bool, attrs ...string) error {
	if entering {
		r.beginBlock()
		r.openTag(name, attrs...)
		r.dst = append(r.dst, '\n')
		return nil
	}
	r.closeItemPara()
	r.closeTag(name)
	return r.endBlock()
}

func (r *renderState) VisitCodeBlock(b *markdown.Block) error {
	r.beginBlock()
	r.openTag("programlisting")
	r.text(b.Literal())
	r.closeTag("programlisting")
	return r.endBlock()
}

func (r *renderState) VisitHorizontalRule(b *markdown.Block) error {
	return nil
}

func (r *renderState) VisitRawHTMLBlock(b *markdown.Block) error {
	r.beginBlock()
	r.openTag("programlisting", "language", "html")
	r.text(b.Literal())
	r.closeTag("programlisting")
	return r.endBlock()
}

func (r *renderState) VisitText(inline *markdown.Inline) error {
	r.text(inline.Text())
	return nil
}

func (r *renderState) VisitEmphasis(inline *markdown.Inline, entering bool) error {
	typ := inline.EmphasisType()
	if entering {
		if typ == markdown.Bold || typ == markdown.ItalicAndBold {
			r.openTag("emphasis", "role", "strong")
		}
		if typ == markdown.Italic || typ == markdown.ItalicAndBold {
			r.openTag("emphasis")
		}
		return nil
	}
	r.closeTag("emphasis")
	if typ == markdown.ItalicAndBold {
		r.closeTag("emphasis")
	}
	return nil
}

func (r *renderState) VisitCodeSpan(inline *markdown.Inline) error {
	r.openTag("code")
	r.text(inline.Text())
	r.closeTag("code")
	return nil
}

func (r *renderState) VisitLink(inline *markdown.Inline, entering bool) error {
	if !entering {
		r.closeTag("link")
		return nil
	}
	target := inline.Target()
	attrs := []string{"xlink:href", markdown.NormalizeURI(target.Destination)}
	if target.TitlePresent {
		attrs = append(attrs, "xlink:title", target.Title)
	}
	r.openTag("link", attrs...)
	return nil
}

func (r *renderState) VisitImage(inline *markdown.Inline) error {
	r.openTag("inlinemediaobject")
	r.openTag("imageobject")
	r.dst = append(r.dst, `<imagedata fileref="`...)
	r.dst = append(r.dst, attributeEscaper.Replace([]byte(markdown.NormalizeURI(inline.Target().Destination)))...)
	r.dst = append(r.dst, `"/>`...)
	r.closeTag("imageobject")
	if alt := inline.AltText(); alt != "" {
		r.openTag("textobject")
		r.openTag("phrase")
		r.text(alt)
		r.closeTag("phrase")
		r.closeTag("textobject")
	}
	r.closeTag("inlinemediaobject")
	return nil
}

func (r *renderState) VisitAutoLink(inline *markdown.Inline) error {
	if inline.IsEmail() {
		r.openTag("email")
		r.text(inline.Text())
		r.closeTag("email")
		return nil
	}
	r.openTag("link", "xlink:href", markdown.NormalizeURI(inline.Target().Destination))
	r.text(inline.Text())
	r.closeTag("link")
	return nil
}

func (r *renderState) VisitRawHTML(inline *markdown.Inline) error {
	r.openTag("literal", "role", "html")
	r.text(inline.Text())
	r.closeTag("literal")
	return nil
}

func (r *renderState) VisitLineBreak(inline *markdown.Inline) error {
	r.dst = append(r.dst, '\n')
	return nil
}

func (r *renderState) VisitEntityText(inline *markdown.Inline) error {
	r.text(inline.Decoded())
	return nil
}
