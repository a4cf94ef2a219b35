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

package format

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kylelemons/godebug/diff"
	"zombiezen.com/go/markdown"
	"zombiezen.com/go/markdown/internal/mdtest"
)

var formatTests = []struct {
	name  string
	input string
	want  string
}{
	{
		name:  "Empty",
		input: "",
		want:  "",
	},
	{
		name:  "Paragraphs",
		input: "Hello,   World!\n\n\n\nsecond\nline\n",
		want:  "Hello,   World!\n\nsecond line\n",
	},
	{
		name:  "Headers",
		input: "Title\n=====\n\n## Sub ##\n",
		want:  "# Title\n\n## Sub\n",
	},
	{
		name:  "Escapes",
		input: `\*not emphasis\* and a\_b and \[x\] and C\# and \\` + "\n",
		want:  `\*not emphasis\* and a\_b and \[x\] and C\# and \\` + "\n",
	},
	{
		name:  "LineStartEscapes",
		input: "\\- a\n\n1\\. b\n\n\\+ c\n",
		want:  "\\- a\n\n1\\. b\n\n\\+ c\n",
	},
	{
		name:  "Emphasis",
		input: "*a* __b__ ***c*** **x *y* z**\n",
		want:  "*a* **b** ***c*** **x _y_ z**\n",
	},
	{
		name:  "CodeSpan",
		input: "Use `` a`b `` here\n",
		want:  "Use ``a`b`` here\n",
	},
	{
		name:  "Lists",
		input: "* a\n* b\n    * c\n\ntext\n\n7. x\n\n8. y\n",
		want:  "-   a\n-   b\n    -   c\n\ntext\n\n7.  x\n\n8.  y\n",
	},
	{
		name:  "Blockquote",
		input: "> a\n>\n> > b\n",
		want:  "> a\n>\n> > b\n",
	},
	{
		name:  "CodeBlock",
		input: "para\n\n    code\n\n      more\n",
		want:  "para\n\n    code\n\n      more\n",
	},
	{
		name: "Links",
		input: "[inline](/u \"t\") and [ref][Foo] and ![alt *x*](/i.png) and <http://a.com>\n" +
			"\n" +
			"[foo]: /dest 'T'\n",
		want: "[inline](/u \"t\") and [ref][foo] and ![alt *x*](/i.png) and <http://a.com>\n" +
			"\n" +
			"[foo]: /dest \"T\"\n",
	},
	{
		name:  "Entities",
		input: "AT&T &copy; 4 < 5\n",
		want:  "AT&amp;T &copy; 4 &lt; 5\n",
	},
	{
		name:  "HardBreak",
		input: "a  \nb\n",
		want:  "a  \nb\n",
	},
	{
		name:  "ReferenceOnly",
		input: "[a]: <http://x y>\n",
		want:  "[a]: <http://x y>\n",
	},
	{
		name:  "HorizontalRule",
		input: "a\n\n---\n\nb\n",
		want:  "a\n\n* * *\n\nb\n",
	},
	{
		name:  "RawHTMLBlock",
		input: "<div>\n*x*\n</div>\n\npara\n",
		want:  "<div>\n*x*\n</div>\n\npara\n",
	},
}

func TestFormat(t *testing.T) {
	for _, test := range formatTests {
		t.Run(test.name, func(t *testing.T) {
			got := new(strings.Builder)
			if err := Format(got, markdown.Parse([]byte(test.input))); err != nil {
				t.Fatal("Format:", err)
			}
			if diff := cmp.Diff(test.want, got.String()); diff != "" {
				t.Errorf("Input:\n%s\nOutput (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

// TestFormatReparse verifies that formatted output
// parses to the same document as the original input.
func TestFormatReparse(t *testing.T) {
	for _, test := range formatTests {
		t.Run(test.name, func(t *testing.T) {
			doc := markdown.Parse([]byte(test.input))
			formatted := new(bytes.Buffer)
			if err := Format(formatted, doc); err != nil {
				t.Fatal("Format:", err)
			}
			want := dumpDocument(doc)
			got := dumpDocument(markdown.Parse(formatted.Bytes()))
			if want != got {
				t.Errorf("Reparsed document differs. Formatted:\n%s\nTree diff:\n%s",
					formatted, diff.Diff(want, got))
			}
		})
	}
}

func FuzzFormat(f *testing.F) {
	examples, err := mdtest.Load()
	if err != nil {
		f.Fatal(err)
	}
	for _, ex := range examples {
		f.Add(ex.Markdown)
	}

	f.Fuzz(func(t *testing.T, input string) {
		doc := markdown.Parse([]byte(input))
		got := new(bytes.Buffer)
		if err := Format(got, doc); err != nil {
			t.Fatal("Format #1:", err)
		}

		formattedDoc := markdown.Parse(got.Bytes())
		if before, after := dumpDocument(doc), dumpDocument(formattedDoc); before != after {
			t.Skipf("Reformatting changed the document. Original:\n%s\nReformatted:\n%s\nTree diff:\n%s",
				input, got, diff.Diff(before, after))
		}

		reformatted := new(bytes.Buffer)
		if err := Format(reformatted, formattedDoc); err != nil {
			t.Fatal("Format #2:", err)
		}
		if diff := cmp.Diff(got.String(), reformatted.String()); diff != "" {
			t.Errorf("Format not idempotent (-first +second):\n%s", diff)
		}
	})
}

func TestFormatWriteError(t *testing.T) {
	errBroken := errors.New("bork")
	err := Format(errorWriter{errBroken}, markdown.Parse([]byte("# Hello\n\nWorld\n")))
	if !errors.Is(err, errBroken) {
		t.Errorf("Format(...) = %v; want %v", err, errBroken)
	}
}

func TestCodeSpanFenceLength(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"a`b", 2},
		{"a``b", 1},
		{"a`b``c", 3},
	}
	for _, test := range tests {
		if got := codeSpanFenceLength(test.text); got != test.want {
			t.Errorf("codeSpanFenceLength(%q) = %d; want %d", test.text, got, test.want)
		}
	}
}

// dumpDocument returns a textual description of the document tree,
// one node per line.
func dumpDocument(doc *markdown.Document) string {
	sb := new(strings.Builder)
	markdown.Walk(doc.AsNode(), &markdown.WalkOptions{
		Pre: func(c *markdown.Cursor) bool {
			sb.WriteString(strings.Repeat("  ", c.Depth()))
			switch n := c.Node(); {
			case n.Block() != nil:
				b := n.Block()
				fmt.Fprintf(sb, "%v level=%d loose=%t start=%d literal=%q",
					b.Kind(), b.HeaderLevel(), b.IsLoose(), b.ListStart(), b.Literal())
			case n.Inline() != nil:
				inline := n.Inline()
				fmt.Fprintf(sb, "%v %q emphasis=%d target=%+v ref=%q",
					inline.Kind(), inline.Text(), inline.EmphasisType(), inline.Target(), inline.ReferenceLabel())
			default:
				sb.WriteString("Document")
			}
			sb.WriteString("\n")
			return true
		},
	})
	labels := make([]string, 0, len(doc.References))
	for label := range doc.References {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(sb, "[%s] %+v\n", label, doc.References[label])
	}
	return sb.String()
}

type errorWriter struct {
	err error
}

func (w errorWriter) Write(p []byte) (int, error) {
	return 0, w.err
}
