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

// Package markdown provides a parser for the original [Markdown] syntax
// (version 1.1 of the dialect)
// that produces a document tree,
// along with an HTML renderer for that tree.
//
// Parsing happens in ordered phases over the whole document:
// lines are normalized,
// split into blocks (paragraphs, lists, block quotes, etc.),
// reference definitions are collected from anywhere in the document,
// and then the text of each block is resolved into inline nodes
// (emphasis, links, code spans, etc.).
// Parsing never fails:
// any construct that is incomplete is kept as literal text.
//
// [Markdown]: https://daringfireball.net/projects/markdown/syntax
package markdown

import (
	"fmt"
	"io"
)

// DefaultMaxNesting is the nesting limit used by a [Parser]
// whose MaxNesting field is not positive.
const DefaultMaxNesting = 32

// A Parser holds options for parsing Markdown.
// The zero value is ready to use.
type Parser struct {
	// MaxNesting is the maximum depth of nested block quotes and lists,
	// as well as nested emphasis and links.
	// Content nested more deeply is parsed as plain paragraphs
	// (for blocks) or literal text (for inlines).
	// If MaxNesting is not positive, [DefaultMaxNesting] is used.
	MaxNesting int
}

// Parse parses an in-memory Markdown document
// with the default options.
func Parse(source []byte) *Document {
	return new(Parser).Parse(source)
}

// ParseReader reads all of r and parses it as a Markdown document
// with the default options.
// Errors are only returned for failures to read r.
func ParseReader(r io.Reader) (*Document, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	return Parse(source), nil
}

// Parse parses an in-memory Markdown document.
// Parse is safe to call concurrently.
func (p *Parser) Parse(source []byte) *Document {
	maxNesting := p.MaxNesting
	if maxNesting <= 0 {
		maxNesting = DefaultMaxNesting
	}

	lines := normalizeLines(source)
	seg := &segmenter{maxNesting: maxNesting}
	refMap := make(ReferenceMap)
	doc := &Document{
		Blocks:     refMap.Extract(seg.segment(lines, segmentContext{})),
		References: refMap,
	}
	inlineParser := &InlineParser{
		References: refMap,
		MaxNesting: maxNesting,
	}
	inlineParser.Rewrite(doc)
	return doc
}
