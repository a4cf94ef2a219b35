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
	"html"
	"strings"
)

// A Document is a fully parsed Markdown document.
// It is not modified after [Parse] returns.
type Document struct {
	Blocks     []*Block
	References ReferenceMap
}

// A Block is a structural element in a Markdown document
// that occupies whole lines.
type Block struct {
	kind  BlockKind
	level int
	start int
	loose bool

	// lines holds text that has not been through inline resolution yet.
	lines []string
	// literal holds the verbatim content of code blocks and raw HTML blocks.
	literal string
	refdef  *referenceDefinition

	inlineChildren []*Inline
	blockChildren  []*Block
}

// Kind returns the type of block node
// or zero if the node is nil.
func (b *Block) Kind() BlockKind {
	if b == nil {
		return 0
	}
	return b.kind
}

// HeaderLevel returns the 1-based level for a [HeaderKind] block
// or zero otherwise.
func (b *Block) HeaderLevel() int {
	if b.Kind() != HeaderKind {
		return 0
	}
	return b.level
}

// IsLoose reports whether the block is a list or list item
// whose items are separated by blank lines.
func (b *Block) IsLoose() bool {
	switch b.Kind() {
	case OrderedListKind, UnorderedListKind, ListItemKind:
		return b.loose
	default:
		return false
	}
}

// IsTight reports whether the block is a list or list item
// whose items are not separated by blank lines.
func (b *Block) IsTight() bool {
	switch b.Kind() {
	case OrderedListKind, UnorderedListKind, ListItemKind:
		return !b.loose
	default:
		return false
	}
}

// ListStart returns the number of the first item of an [OrderedListKind] block
// or zero for any other block.
func (b *Block) ListStart() int {
	if b.Kind() != OrderedListKind {
		return 0
	}
	return b.start
}

// Literal returns the verbatim content of a [CodeBlockKind] or [RawHTMLBlockKind] block.
// Each line in the returned string is terminated by a newline.
func (b *Block) Literal() string {
	switch b.Kind() {
	case CodeBlockKind, RawHTMLBlockKind:
		return b.literal
	default:
		return ""
	}
}

// InlineChildren returns the inline content of the block.
// Headers, paragraphs, and list items in tight lists have inline content.
func (b *Block) InlineChildren() []*Inline {
	if b == nil {
		return nil
	}
	return b.inlineChildren
}

// BlockChildren returns the nested blocks of the block.
func (b *Block) BlockChildren() []*Block {
	if b == nil {
		return nil
	}
	return b.blockChildren
}

// ChildCount returns the number of children the block has.
// Inline children are counted before block children.
func (b *Block) ChildCount() int {
	if b == nil {
		return 0
	}
	return len(b.inlineChildren) + len(b.blockChildren)
}

// Child returns the i'th child of the block.
func (b *Block) Child(i int) Node {
	if i < len(b.inlineChildren) {
		return b.inlineChildren[i].AsNode()
	}
	return b.blockChildren[i-len(b.inlineChildren)].AsNode()
}

// BlockKind is an enumeration of values returned by [*Block.Kind].
type BlockKind uint16

const (
	ParagraphKind BlockKind = 1 + iota
	HeaderKind
	BlockquoteKind
	UnorderedListKind
	OrderedListKind
	ListItemKind
	CodeBlockKind
	HorizontalRuleKind
	RawHTMLBlockKind

	// referenceDefinitionKind is a tentative link reference definition.
	// It never appears in a Document returned from Parse.
	referenceDefinitionKind
)

var blockKindNames = [...]string{
	ParagraphKind:           "ParagraphKind",
	HeaderKind:              "HeaderKind",
	BlockquoteKind:          "BlockquoteKind",
	UnorderedListKind:       "UnorderedListKind",
	OrderedListKind:         "OrderedListKind",
	ListItemKind:            "ListItemKind",
	CodeBlockKind:           "CodeBlockKind",
	HorizontalRuleKind:      "HorizontalRuleKind",
	RawHTMLBlockKind:        "RawHTMLBlockKind",
	referenceDefinitionKind: "referenceDefinitionKind",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) && blockKindNames[k] != "" {
		return blockKindNames[k]
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// Inline represents Markdown content elements
// like text, links, or emphasis.
type Inline struct {
	kind     InlineKind
	text     string
	emphasis EmphasisType
	target   LinkDefinition
	ref      string
	email    bool
	children []*Inline
}

// Kind returns the type of inline node
// or zero if the node is nil.
func (inline *Inline) Kind() InlineKind {
	if inline == nil {
		return 0
	}
	return inline.kind
}

// Text returns the literal text of the node.
// For [EntityTextKind] nodes, this is the encoded form (e.g. "&amp;").
// For [AutoLinkKind] nodes, this is the address as displayed.
// For [ImageKind] nodes, this is the alternate text.
func (inline *Inline) Text() string {
	if inline == nil {
		return ""
	}
	return inline.text
}

// Decoded returns the character value of an [EntityTextKind] node
// or the literal text of any other node.
func (inline *Inline) Decoded() string {
	if inline.Kind() != EntityTextKind {
		return inline.Text()
	}
	return html.UnescapeString(inline.text)
}

// AltText returns the alternate text of an [ImageKind] node.
func (inline *Inline) AltText() string {
	if inline.Kind() != ImageKind {
		return ""
	}
	return inline.text
}

// EmphasisType returns the type of an [EmphasisKind] node
// or zero for any other node.
func (inline *Inline) EmphasisType() EmphasisType {
	if inline.Kind() != EmphasisKind {
		return 0
	}
	return inline.emphasis
}

// Target returns the resolved destination of a
// [LinkKind], [ImageKind], or [AutoLinkKind] node.
func (inline *Inline) Target() LinkDefinition {
	switch inline.Kind() {
	case LinkKind, ImageKind, AutoLinkKind:
		return inline.target
	default:
		return LinkDefinition{}
	}
}

// ReferenceLabel returns the normalized label
// of a reference-style [LinkKind] or [ImageKind] node.
// It returns the empty string for inline links and all other nodes.
func (inline *Inline) ReferenceLabel() string {
	switch inline.Kind() {
	case LinkKind, ImageKind:
		return inline.ref
	default:
		return ""
	}
}

// IsEmail reports whether the node is an [AutoLinkKind] node for an email address.
func (inline *Inline) IsEmail() bool {
	return inline.Kind() == AutoLinkKind && inline.email
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on nil returns 0.
func (inline *Inline) ChildCount() int {
	if inline == nil {
		return 0
	}
	return len(inline.children)
}

// Child returns the i'th child of the node.
func (inline *Inline) Child(i int) *Inline {
	return inline.children[i]
}

// Children returns the node's children.
func (inline *Inline) Children() []*Inline {
	if inline == nil {
		return nil
	}
	return inline.children
}

// PlainText returns the concatenated decoded text of the node and its descendants.
func (inline *Inline) PlainText() string {
	sb := new(strings.Builder)
	stack := []*Inline{inline}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch curr.Kind() {
		case TextKind, CodeSpanKind, AutoLinkKind, ImageKind:
			sb.WriteString(curr.Text())
		case EntityTextKind:
			sb.WriteString(curr.Decoded())
		case LineBreakKind:
			sb.WriteString("\n")
		default:
			for i := len(curr.children) - 1; i >= 0; i-- {
				stack = append(stack, curr.children[i])
			}
		}
	}
	return sb.String()
}

// InlineKind is an enumeration of values returned by [*Inline.Kind].
type InlineKind uint16

const (
	TextKind InlineKind = 1 + iota
	EmphasisKind
	CodeSpanKind
	LinkKind
	ImageKind
	AutoLinkKind
	RawHTMLKind
	LineBreakKind
	EntityTextKind
)

var inlineKindNames = [...]string{
	TextKind:       "TextKind",
	EmphasisKind:   "EmphasisKind",
	CodeSpanKind:   "CodeSpanKind",
	LinkKind:       "LinkKind",
	ImageKind:      "ImageKind",
	AutoLinkKind:   "AutoLinkKind",
	RawHTMLKind:    "RawHTMLKind",
	LineBreakKind:  "LineBreakKind",
	EntityTextKind: "EntityTextKind",
}

func (k InlineKind) String() string {
	if int(k) < len(inlineKindNames) && inlineKindNames[k] != "" {
		return inlineKindNames[k]
	}
	return fmt.Sprintf("InlineKind(%d)", int(k))
}

// EmphasisType is an enumeration of values returned by [*Inline.EmphasisType].
// It corresponds to the length of the delimiter run.
type EmphasisType uint8

const (
	Italic EmphasisType = 1 + iota
	Bold
	ItalicAndBold
)

func (t EmphasisType) String() string {
	switch t {
	case Italic:
		return "Italic"
	case Bold:
		return "Bold"
	case ItalicAndBold:
		return "ItalicAndBold"
	default:
		return fmt.Sprintf("EmphasisType(%d)", int(t))
	}
}
