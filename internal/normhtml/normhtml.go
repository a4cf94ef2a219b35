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

// Package normhtml normalizes rendered HTML fragments
// so that tests can compare them
// without regard to whitespace between block elements,
// attribute order, or the spelling of character references.
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var textEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// NormalizeHTML strips insignificant output differences from an HTML fragment.
func NormalizeHTML(b []byte) []byte {
	n := &normalizer{
		tok:  html.NewTokenizerFragment(bytes.NewReader(b), "div"),
		last: html.StartTagToken,
	}
	for n.next() {
	}
	return n.output
}

// Equal reports whether two HTML fragments are the same after normalization.
func Equal(a, b []byte) bool {
	return bytes.Equal(NormalizeHTML(a), NormalizeHTML(b))
}

type normalizer struct {
	tok     *html.Tokenizer
	output  []byte
	last    html.TokenType
	lastTag atom.Atom
	inPre   bool
}

func (n *normalizer) next() bool {
	tt := n.tok.Next()
	switch tt {
	case html.ErrorToken:
		return false
	case html.TextToken:
		n.text(n.tok.Text())
	case html.EndTagToken:
		n.endTag()
	case html.StartTagToken, html.SelfClosingTagToken:
		n.startTag()
	case html.CommentToken:
		n.output = append(n.output, n.tok.Raw()...)
	}
	n.last = tt
	if tt == html.SelfClosingTagToken {
		n.last = html.EndTagToken
	}
	return true
}

func (n *normalizer) text(data []byte) {
	afterTag := n.last == html.EndTagToken || n.last == html.StartTagToken
	if afterTag && n.lastTag == atom.Br {
		data = bytes.TrimLeft(data, "\n")
	}
	if !n.inPre {
		data = whitespaceRE.ReplaceAll(data, []byte(" "))
		if afterTag && isBlockTag(n.lastTag) {
			if n.last == html.StartTagToken {
				data = bytes.TrimLeftFunc(data, unicode.IsSpace)
			} else {
				data = bytes.TrimSpace(data)
			}
		}
	}
	n.output = append(n.output, textEscaper.Replace(bytes.Clone(data))...)
}

func (n *normalizer) endTag() {
	name, _ := n.tok.TagName()
	tag := atom.Lookup(name)
	if tag == atom.Pre {
		n.inPre = false
	} else if isBlockTag(tag) {
		n.output = bytes.TrimRightFunc(n.output, unicode.IsSpace)
	}
	n.output = append(n.output, "</"...)
	n.output = append(n.output, name...)
	n.output = append(n.output, '>')
	n.lastTag = tag
}

func (n *normalizer) startTag() {
	type attribute struct {
		key   string
		value string
	}

	name, hasAttr := n.tok.TagName()
	tag := atom.Lookup(name)
	if tag == atom.Pre {
		n.inPre = true
	}
	if isBlockTag(tag) {
		n.output = bytes.TrimRightFunc(n.output, unicode.IsSpace)
	}
	n.output = append(n.output, '<')
	n.output = append(n.output, name...)
	var attrs []attribute
	for more := hasAttr; more; {
		var k, v []byte
		k, v, more = n.tok.TagAttr()
		attrs = append(attrs, attribute{string(k), string(v)})
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].key < attrs[j].key
	})
	for _, attr := range attrs {
		n.output = append(n.output, ' ')
		n.output = append(n.output, attr.key...)
		if attr.value != "" {
			n.output = append(n.output, `="`...)
			n.output = append(n.output, html.EscapeString(attr.value)...)
			n.output = append(n.output, '"')
		}
	}
	n.output = append(n.output, '>')
	n.lastTag = tag
}

// isBlockTag reports whether whitespace around the element is insignificant.
func isBlockTag(tag atom.Atom) bool {
	switch tag {
	case atom.Blockquote, atom.Body, atom.Dd, atom.Del, atom.Div, atom.Dl, atom.Dt,
		atom.Fieldset, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Hr, atom.Iframe, atom.Ins, atom.Li, atom.Math, atom.Noscript,
		atom.Ol, atom.P, atom.Pre, atom.Script, atom.Style, atom.Table,
		atom.Tbody, atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Tr, atom.Ul:
		return true
	default:
		return false
	}
}
