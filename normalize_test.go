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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "Empty",
			source: "",
			want:   nil,
		},
		{
			name:   "NoFinalNewline",
			source: "a\nb",
			want:   []string{"a", "b"},
		},
		{
			name:   "FinalNewline",
			source: "a\nb\n",
			want:   []string{"a", "b"},
		},
		{
			name:   "MixedLineEndings",
			source: "a\r\nb\rc\n\r\nd",
			want:   []string{"a", "b", "c", "", "d"},
		},
		{
			name:   "ByteOrderMark",
			source: "\ufeffHello\n",
			want:   []string{"Hello"},
		},
		{
			name:   "LeadingTab",
			source: "\tcode",
			want:   []string{"    code"},
		},
		{
			name:   "TabStops",
			source: "ab\tc\td",
			want:   []string{"ab  c   d"},
		},
		{
			name:   "TabAfterMultibyte",
			source: "é\tx",
			want:   []string{"é   x"},
		},
		{
			name:   "WhitespaceOnly",
			source: "a\n  \t \nb",
			want:   []string{"a", "", "b"},
		},
		{
			name:   "TrailingSpacesKept",
			source: "a  \nb",
			want:   []string{"a  ", "b"},
		},
		{
			name:   "NUL",
			source: "Hello,\x00World",
			want:   []string{"Hello,\ufffdWorld"},
		},
		{
			name:   "InvalidUTF8",
			source: "a\xffb",
			want:   []string{"a\xffb"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := normalizeLines([]byte(test.source))
			if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("normalizeLines(%q) (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestTrimIndent(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want string
	}{
		{"", 4, ""},
		{"abc", 4, "abc"},
		{"  abc", 4, "abc"},
		{"      abc", 4, "  abc"},
		{"    abc", 2, "  abc"},
	}
	for _, test := range tests {
		if got := trimIndent(test.line, test.n); got != test.want {
			t.Errorf("trimIndent(%q, %d) = %q; want %q", test.line, test.n, got, test.want)
		}
	}
}
