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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"", ""},
		{"foo", "foo"},
		{"Foo Bar", "foo bar"},
		{"  foo \n  bar  ", "foo bar"},
		{"ΑΓΩ", "αγω"},
	}
	for _, test := range tests {
		if got := NormalizeLabel(test.label); got != test.want {
			t.Errorf("NormalizeLabel(%q) = %q; want %q", test.label, got, test.want)
		}
	}
}

func TestParseReferenceDefinition(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		want      *referenceDefinition
		wantLines int
	}{
		{
			name:      "DestinationOnly",
			lines:     []string{"[foo]: /url"},
			want:      &referenceDefinition{label: "foo", destination: "/url"},
			wantLines: 1,
		},
		{
			name:      "Indented",
			lines:     []string{"   [foo]:   /url"},
			want:      &referenceDefinition{label: "foo", destination: "/url"},
			wantLines: 1,
		},
		{
			name:      "AngleDestination",
			lines:     []string{"[foo]: <http://example.com/a b>"},
			want:      &referenceDefinition{label: "foo", destination: "http://example.com/a b"},
			wantLines: 1,
		},
		{
			name:  "DoubleQuotedTitle",
			lines: []string{`[foo]: /url "The \"Title\""`},
			want: &referenceDefinition{
				label:        "foo",
				destination:  "/url",
				title:        `The \"Title\"`,
				titlePresent: true,
			},
			wantLines: 1,
		},
		{
			name:  "SingleQuotedTitle",
			lines: []string{"[foo]: /url 'Title'"},
			want: &referenceDefinition{
				label:        "foo",
				destination:  "/url",
				title:        "Title",
				titlePresent: true,
			},
			wantLines: 1,
		},
		{
			name:  "ParenthesizedTitle",
			lines: []string{"[foo]: /url (Title)"},
			want: &referenceDefinition{
				label:        "foo",
				destination:  "/url",
				title:        "Title",
				titlePresent: true,
			},
			wantLines: 1,
		},
		{
			name:  "TitleOnNextLine",
			lines: []string{"[foo]: /url", `        "Title"`, "next"},
			want: &referenceDefinition{
				label:        "foo",
				destination:  "/url",
				title:        "Title",
				titlePresent: true,
			},
			wantLines: 2,
		},
		{
			name:      "NextLineNotTitle",
			lines:     []string{"[foo]: /url", "Hello"},
			want:      &referenceDefinition{label: "foo", destination: "/url"},
			wantLines: 1,
		},
		{
			name:  "EmptyTitle",
			lines: []string{`[foo]: /url ""`},
			want: &referenceDefinition{
				label:        "foo",
				destination:  "/url",
				titlePresent: true,
			},
			wantLines: 1,
		},
		{
			name:  "MissingDestination",
			lines: []string{"[foo]:"},
		},
		{
			name:  "MissingColon",
			lines: []string{"[foo] /url"},
		},
		{
			name:  "CodeIndent",
			lines: []string{"    [foo]: /url"},
		},
		{
			name:  "TrailingGarbage",
			lines: []string{`[foo]: /url "title" ok`},
		},
		{
			name:  "UnterminatedAngle",
			lines: []string{"[foo]: <bar"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, n := parseReferenceDefinition(test.lines)
			if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(referenceDefinition{})); diff != "" {
				t.Errorf("definition (-want +got):\n%s", diff)
			}
			if n != test.wantLines {
				t.Errorf("lines consumed = %d; want %d", n, test.wantLines)
			}
		})
	}
}

func TestReferenceMapExtract(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, TraceKey)
	defer teardown()

	const input = "[a]: /first\n" +
		"[A]: /second\n" +
		"\n" +
		"> [b]: /quoted \"Q\"\n" +
		"\n" +
		"- [c]: /item\n" +
		"\n" +
		"[x[y]]: /bad\n"
	s := &segmenter{maxNesting: DefaultMaxNesting}
	blocks := s.segment(normalizeLines([]byte(input)), segmentContext{})
	refMap := make(ReferenceMap)
	blocks = refMap.Extract(blocks)

	want := ReferenceMap{
		"a": {Destination: "/first"},
		"b": {Destination: "/quoted", Title: "Q", TitlePresent: true},
		"c": {Destination: "/item"},
	}
	if diff := cmp.Diff(want, refMap); diff != "" {
		t.Errorf("references (-want +got):\n%s", diff)
	}

	gotKinds := make([]BlockKind, 0, len(blocks))
	for _, b := range blocks {
		gotKinds = append(gotKinds, b.Kind())
	}
	wantKinds := []BlockKind{BlockquoteKind, UnorderedListKind, ParagraphKind}
	if diff := cmp.Diff(wantKinds, gotKinds); diff != "" {
		t.Errorf("remaining block kinds (-want +got):\n%s", diff)
	}
	if n := len(blocks[0].BlockChildren()); n != 0 {
		t.Errorf("block quote has %d children after extraction; want 0", n)
	}
	if got, want := blocks[2].lines, []string{"[x[y]]: /bad"}; !cmp.Equal(got, want) {
		t.Errorf("malformed definition lines = %q; want %q", got, want)
	}
}

func TestReferenceMapLookup(t *testing.T) {
	refMap := ReferenceMap{
		"foo bar": {Destination: "/url"},
	}
	tests := []struct {
		label  string
		wantOK bool
	}{
		{"foo bar", true},
		{"FOO   Bar", true},
		{" foo\nbar ", true},
		{"foobar", false},
		{"", false},
	}
	for _, test := range tests {
		def, ok := refMap.Lookup(test.label)
		if ok != test.wantOK {
			t.Errorf("Lookup(%q) ok = %t; want %t", test.label, ok, test.wantOK)
		}
		if ok && def.Destination != "/url" {
			t.Errorf("Lookup(%q).Destination = %q; want %q", test.label, def.Destination, "/url")
		}
	}
	if !refMap.MatchReference("foo bar") {
		t.Error(`MatchReference("foo bar") = false; want true`)
	}
}
