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

package docbook

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/markdown"
	"zombiezen.com/go/markdown/internal/mdtest"
)

const articleStart = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
	`<article xmlns="http://docbook.org/ns/docbook" xmlns:xlink="http://www.w3.org/1999/xlink" version="5.0">` + "\n"

func TestRender(t *testing.T) {
	tests := []struct {
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
			name:  "HeaderAndParagraph",
			input: "# Title\n\nSome *em* and **strong** and ***both*** text.\n",
			want: `<bridgehead renderas="sect1">Title</bridgehead>` + "\n" +
				`<para>Some <emphasis>em</emphasis> and <emphasis role="strong">strong</emphasis>` +
				` and <emphasis role="strong"><emphasis>both</emphasis></emphasis> text.</para>` + "\n",
		},
		{
			name:  "DeepHeader",
			input: "###### Six\n",
			want:  `<bridgehead renderas="sect5">Six</bridgehead>` + "\n",
		},
		{
			name:  "TightList",
			input: "* a\n    * b\n* c\n",
			want: `<itemizedlist spacing="compact">` + "\n" +
				"<listitem>\n" +
				"<para>a</para>\n" +
				`<itemizedlist spacing="compact">` + "\n" +
				"<listitem>\n" +
				"<para>b</para>\n" +
				"</listitem>\n" +
				"</itemizedlist>\n" +
				"</listitem>\n" +
				"<listitem>\n" +
				"<para>c</para>\n" +
				"</listitem>\n" +
				"</itemizedlist>\n",
		},
		{
			name:  "LooseOrderedList",
			input: "3. x\n\n4. y\n",
			want: `<orderedlist spacing="normal" startingnumber="3">` + "\n" +
				"<listitem>\n" +
				"<para>x</para>\n" +
				"</listitem>\n" +
				"<listitem>\n" +
				"<para>y</para>\n" +
				"</listitem>\n" +
				"</orderedlist>\n",
		},
		{
			name:  "BlockquoteAndCode",
			input: "> quote\n\n    a < b\n",
			want: "<blockquote>\n" +
				"<para>quote</para>\n" +
				"</blockquote>\n" +
				"<programlisting>a &lt; b\n</programlisting>\n",
		},
		{
			name:  "Links",
			input: "[a](/u \"T\") <http://x.com> <me@example.com> ![pic](/p.png)\n",
			want: `<para><link xlink:href="/u" xlink:title="T">a</link>` +
				` <link xlink:href="http://x.com">http://x.com</link>` +
				` <email>me@example.com</email>` +
				` <inlinemediaobject><imageobject><imagedata fileref="/p.png"/></imageobject>` +
				`<textobject><phrase>pic</phrase></textobject></inlinemediaobject></para>` + "\n",
		},
		{
			name:  "EntitiesAndRawHTML",
			input: "&copy; 2024 <b>bold</b> AT&T\n",
			want: `<para>© 2024 <literal role="html">&lt;b&gt;</literal>bold` +
				`<literal role="html">&lt;/b&gt;</literal> AT&amp;T</para>` + "\n",
		},
		{
			name:  "CodeSpan",
			input: "Use `<br>` here\n",
			want:  "<para>Use <code>&lt;br&gt;</code> here</para>\n",
		},
		{
			name:  "HorizontalRuleOmitted",
			input: "a\n\n***\n\nb\n",
			want:  "<para>a</para>\n<para>b</para>\n",
		},
		{
			name:  "HardBreak",
			input: "a  \nb\n",
			want:  "<para>a\nb</para>\n",
		},
		{
			name:  "RawHTMLBlock",
			input: "<div>\nx\n</div>\n",
			want:  `<programlisting language="html">&lt;div&gt;` + "\nx\n&lt;/div&gt;\n</programlisting>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			err := Render(buf, markdown.Parse([]byte(test.input)))
			require.NoError(t, err)
			assert.Equal(t, articleStart+test.want+"</article>\n", buf.String())
		})
	}
}

func TestRendererOptions(t *testing.T) {
	r := &Renderer{
		Root:  "chapter",
		Title: "Intro & more",
	}
	buf := new(bytes.Buffer)
	require.NoError(t, r.Render(buf, markdown.Parse([]byte("x\n"))))
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
			`<chapter xmlns="http://docbook.org/ns/docbook" xmlns:xlink="http://www.w3.org/1999/xlink" version="5.0">`+"\n"+
			"<title>Intro &amp; more</title>\n"+
			"<para>x</para>\n"+
			"</chapter>\n",
		buf.String())
}

func TestRenderWellFormed(t *testing.T) {
	examples, err := mdtest.Load()
	require.NoError(t, err)
	for _, ex := range examples {
		t.Run(ex.Section+"/"+ex.Name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			require.NoError(t, Render(buf, markdown.Parse([]byte(ex.Markdown))))

			dec := xml.NewDecoder(strings.NewReader(buf.String()))
			var rootName string
			for {
				tok, err := dec.Token()
				if err == io.EOF {
					break
				}
				require.NoError(t, err, "Output:\n%s", buf)
				if start, ok := tok.(xml.StartElement); ok && rootName == "" {
					rootName = start.Name.Local
					assert.Equal(t, "http://docbook.org/ns/docbook", start.Name.Space)
				}
			}
			assert.Equal(t, "article", rootName)
		})
	}
}

func TestRenderWriteError(t *testing.T) {
	errBroken := errors.New("bork")
	err := Render(errorWriter{errBroken}, markdown.Parse([]byte("Hello\n")))
	assert.ErrorIs(t, err, errBroken)
}

type errorWriter struct {
	err error
}

func (w errorWriter) Write(p []byte) (int, error) {
	return 0, w.err
}
