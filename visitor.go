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

package markdown

import (
	"errors"
	"fmt"
)

// SkipChildren is used as a return value from the entering call
// of a container method of a [Visitor]
// to indicate that the node's children are to be skipped.
// The leaving call for the node is still made.
// Returned from a leaf method, it has no effect.
// It is not returned as an error by [Dispatch].
var SkipChildren = errors.New("skip children")

// A Visitor receives the nodes of a [Document] from [Dispatch].
// A renderer implements Visitor to produce one output format.
//
// Methods that take an entering argument are called for container nodes:
// once with entering set to true before the node's children are visited,
// and once with entering set to false afterward.
// The remaining methods are called once for leaf nodes.
//
// If a method returns an error, dispatch stops
// and [Dispatch] returns the error.
type Visitor interface {
	VisitDocument(doc *Document, entering bool) error

	VisitHeader(b *Block, entering bool) error
	VisitParagraph(b *Block, entering bool) error
	VisitBlockquote(b *Block, entering bool) error
	VisitUnorderedList(b *Block, entering bool) error
	VisitOrderedList(b *Block, entering bool) error
	VisitListItem(b *Block, entering bool) error
	VisitCodeBlock(b *Block) error
	VisitHorizontalRule(b *Block) error
	VisitRawHTMLBlock(b *Block) error

	VisitText(inline *Inline) error
	VisitEmphasis(inline *Inline, entering bool) error
	VisitCodeSpan(inline *Inline) error
	VisitLink(inline *Inline, entering bool) error
	VisitImage(inline *Inline) error
	VisitAutoLink(inline *Inline) error
	VisitRawHTML(inline *Inline) error
	VisitLineBreak(inline *Inline) error
	VisitEntityText(inline *Inline) error
}

// Dispatch calls the method of v that corresponds to each node in doc.
// Nodes are visited in pre-order, matching their order in the source document:
// a container is entered before its children
// and left after its children.
// Within a block that has both inline content and nested blocks
// (a list item in a tight list), the inline content is visited first.
func Dispatch(doc *Document, v Visitor) error {
	var err error
	Walk(doc.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			container, visitErr := visitNode(v, c.Node(), true)
			if errors.Is(visitErr, SkipChildren) {
				if !container {
					return false
				}
				if _, visitErr = visitNode(v, c.Node(), false); visitErr != nil {
					err = visitErr
					c.Stop()
				}
				return false
			}
			if visitErr != nil {
				err = visitErr
				c.Stop()
				return false
			}
			return container
		},
		Post: func(c *Cursor) bool {
			if _, visitErr := visitNode(v, c.Node(), false); visitErr != nil {
				err = visitErr
				return false
			}
			return true
		},
	})
	return err
}

// visitNode calls the Visitor method for n.
// It reports whether n is a container node.
func visitNode(v Visitor, n Node, entering bool) (container bool, err error) {
	if doc := n.Document(); doc != nil {
		return true, v.VisitDocument(doc, entering)
	}
	if b := n.Block(); b != nil {
		switch b.Kind() {
		case HeaderKind:
			return true, v.VisitHeader(b, entering)
		case ParagraphKind:
			return true, v.VisitParagraph(b, entering)
		case BlockquoteKind:
			return true, v.VisitBlockquote(b, entering)
		case UnorderedListKind:
			return true, v.VisitUnorderedList(b, entering)
		case OrderedListKind:
			return true, v.VisitOrderedList(b, entering)
		case ListItemKind:
			return true, v.VisitListItem(b, entering)
		case CodeBlockKind:
			return false, v.VisitCodeBlock(b)
		case HorizontalRuleKind:
			return false, v.VisitHorizontalRule(b)
		case RawHTMLBlockKind:
			return false, v.VisitRawHTMLBlock(b)
		default:
			panic(fmt.Errorf("dispatch: unhandled block kind %v", b.Kind()))
		}
	}
	if inline := n.Inline(); inline != nil {
		switch inline.Kind() {
		case TextKind:
			return false, v.VisitText(inline)
		case EmphasisKind:
			return true, v.VisitEmphasis(inline, entering)
		case CodeSpanKind:
			return false, v.VisitCodeSpan(inline)
		case LinkKind:
			return true, v.VisitLink(inline, entering)
		case ImageKind:
			return false, v.VisitImage(inline)
		case AutoLinkKind:
			return false, v.VisitAutoLink(inline)
		case RawHTMLKind:
			return false, v.VisitRawHTML(inline)
		case LineBreakKind:
			return false, v.VisitLineBreak(inline)
		case EntityTextKind:
			return false, v.VisitEntityText(inline)
		default:
			panic(fmt.Errorf("dispatch: unhandled inline kind %v", inline.Kind()))
		}
	}
	panic("dispatch: nil node")
}
