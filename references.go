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

	"golang.org/x/text/cases"
)

// LinkDefinition is the target of a link or image:
// either written inline or taken from a [reference definition].
//
// [reference definition]: https://daringfireball.net/projects/markdown/syntax#link
type LinkDefinition struct {
	Destination  string
	Title        string
	TitlePresent bool
}

// ReferenceMap is a mapping of normalized labels to link definitions.
// Keys are produced by [NormalizeLabel].
type ReferenceMap map[string]LinkDefinition

// NormalizeLabel returns the canonical form of a reference label:
// leading and trailing whitespace is removed,
// internal runs of whitespace are collapsed to a single space,
// and the result is case-folded.
func NormalizeLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// MatchReference reports whether the normalized label appears in the map.
func (m ReferenceMap) MatchReference(normalizedLabel string) bool {
	_, ok := m[normalizedLabel]
	return ok
}

// Lookup returns the definition for the given label,
// normalizing it first.
func (m ReferenceMap) Lookup(label string) (LinkDefinition, bool) {
	def, ok := m[NormalizeLabel(label)]
	return def, ok
}

// Extract adds any reference definitions found in blocks to the map
// and returns blocks with the definitions removed.
// The slice is modified in place.
// In case of conflicts,
// Extract will not replace any existing definitions in the map
// and will use the first definition in document order.
func (m ReferenceMap) Extract(blocks []*Block) []*Block {
	kept := blocks[:0]
	for _, b := range blocks {
		if b.Kind() != referenceDefinitionKind {
			if len(b.blockChildren) > 0 {
				b.blockChildren = m.Extract(b.blockChildren)
			}
			kept = append(kept, b)
			continue
		}

		def := b.refdef
		label := NormalizeLabel(def.label)
		if _, exists := m[label]; exists {
			tracer().Debugf("markdown: duplicate reference definition for %q ignored", label)
			continue
		}
		m[label] = LinkDefinition{
			Destination:  def.destination,
			Title:        def.title,
			TitlePresent: def.titlePresent,
		}
	}
	for i := len(kept); i < len(blocks); i++ {
		blocks[i] = nil
	}
	return kept
}

// referenceDefinition is a tentatively recognized reference definition.
type referenceDefinition struct {
	label        string
	destination  string
	title        string
	titlePresent bool
}

// parseReferenceDefinition attempts to parse a reference definition
// at the beginning of lines.
// It returns the number of lines consumed,
// which is zero if lines does not start with a definition.
// The label is not validated.
func parseReferenceDefinition(lines []string) (*referenceDefinition, int) {
	if len(lines) == 0 {
		return nil, 0
	}
	line := lines[0]
	if indentWidth(line) >= 4 {
		return nil, 0
	}
	line = strings.TrimLeft(line, " ")
	if !strings.HasPrefix(line, "[") {
		return nil, 0
	}
	labelEnd := strings.Index(line, "]:")
	if labelEnd < 0 {
		return nil, 0
	}
	def := &referenceDefinition{label: line[1:labelEnd]}
	rest := strings.TrimLeft(line[labelEnd+len("]:"):], " ")
	if rest == "" {
		return nil, 0
	}

	if rest[0] == '<' {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return nil, 0
		}
		def.destination = rest[1:end]
		rest = rest[end+1:]
	} else {
		end := strings.IndexByte(rest, ' ')
		if end < 0 {
			end = len(rest)
		}
		def.destination = rest[:end]
		rest = rest[end:]
	}
	if rest != "" && rest[0] != ' ' {
		return nil, 0
	}

	rest = strings.Trim(rest, " ")
	if rest != "" {
		title, ok := parseLinkTitle(rest)
		if !ok {
			return nil, 0
		}
		def.title = title
		def.titlePresent = true
		return def, 1
	}
	if len(lines) > 1 {
		if title, ok := parseLinkTitle(strings.Trim(lines[1], " ")); ok {
			def.title = title
			def.titlePresent = true
			return def, 2
		}
	}
	return def, 1
}

// parseLinkTitle parses a whole string as a title
// enclosed in double quotes, single quotes, or parentheses.
// Titles may contain their own delimiter:
// only the first and last characters are considered.
func parseLinkTitle(s string) (title string, ok bool) {
	if len(s) < 2 {
		return "", false
	}
	var closer byte
	switch s[0] {
	case '"':
		closer = '"'
	case '\'':
		closer = '\''
	case '(':
		closer = ')'
	default:
		return "", false
	}
	if s[len(s)-1] != closer {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// maxLabelLength is the longest reference label in bytes, before normalization.
const maxLabelLength = 999

// hasValidLabel reports whether the definition's label can name a reference.
// Lines with malformed labels are ordinary paragraph text.
func (def *referenceDefinition) hasValidLabel() bool {
	return len(def.label) <= maxLabelLength &&
		isValidLabel(def.label) &&
		NormalizeLabel(def.label) != ""
}

// isValidLabel reports whether a label contains no unescaped brackets.
func isValidLabel(label string) bool {
	for i := 0; i < len(label); i++ {
		switch label[i] {
		case '\\':
			i++
		case '[', ']':
			return false
		}
	}
	return true
}
