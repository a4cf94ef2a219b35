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
	"bytes"
	"strings"
	"unicode/utf8"
)

// tabStopSize is the multiple of columns that a [tab] advances to.
//
// [tab]: https://daringfireball.net/projects/markdown/syntax#block
const tabStopSize = 4

const byteOrderMark = "\ufeff"

// normalizeLines splits source into lines without their terminators.
// "\r\n", "\r", and "\n" all end a line.
// Tabs are expanded to the next tab stop,
// NUL characters are replaced with U+FFFD,
// and lines consisting only of spaces become empty.
func normalizeLines(source []byte) []string {
	source = bytes.TrimPrefix(source, []byte(byteOrderMark))
	var lines []string
	sb := new(strings.Builder)
	for len(source) > 0 {
		end := bytes.IndexAny(source, "\r\n")
		var line []byte
		if end < 0 {
			line, source = source, nil
		} else {
			line = source[:end]
			if source[end] == '\r' && end+1 < len(source) && source[end+1] == '\n' {
				end++
			}
			source = source[end+1:]
		}
		lines = append(lines, normalizeLine(sb, line))
	}
	return lines
}

func normalizeLine(sb *strings.Builder, line []byte) string {
	sb.Reset()
	col := 0
	onlySpace := true
	for len(line) > 0 {
		c, size := utf8.DecodeRune(line)
		switch {
		case c == '\t':
			n := tabStopSize - col%tabStopSize
			for i := 0; i < n; i++ {
				sb.WriteByte(' ')
			}
			col += n
		case c == 0:
			sb.WriteRune(utf8.RuneError)
			col++
			onlySpace = false
		case c == utf8.RuneError && size == 1:
			// Pass invalid bytes through unchanged.
			sb.WriteByte(line[0])
			col++
			onlySpace = false
		default:
			sb.WriteRune(c)
			col++
			onlySpace = onlySpace && c == ' '
		}
		line = line[size:]
	}
	if onlySpace {
		return ""
	}
	return sb.String()
}

// indentWidth returns the number of leading spaces in a normalized line.
func indentWidth(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// trimIndent removes up to n leading spaces from a normalized line.
func trimIndent(line string, n int) string {
	if w := indentWidth(line); w < n {
		n = w
	}
	return line[n:]
}

func isBlankLine(line string) bool {
	return len(line) == 0
}
