package testdocs

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tsawler/wordtables/model"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// DOCX returns a DOCX package whose body holds tables separated by
// paragraphs.
func DOCX(tables ...Table) []byte {
	var body strings.Builder
	body.WriteString("<w:p><w:r><w:t>Intro</w:t></w:r></w:p>")
	for _, t := range tables {
		body.WriteString(TableXML(t))
		body.WriteString("<w:p/>")
	}
	return DOCXWithBody(body.String())
}

// DOCXWithBody returns a DOCX package with the given <w:body> content.
func DOCXWithBody(body string) []byte {
	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>` + body + `</w:body>
</w:document>`

	return Package(map[string]string{
		"[Content_Types].xml": contentTypes,
		"_rels/.rels":         packageRels,
		"word/document.xml":   document,
	})
}

// Package zips the given parts.
func Package(parts map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// Fixed order keeps the output deterministic
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if content, ok := parts[name]; ok {
			writePart(zw, name, content)
		}
	}
	for name, content := range parts {
		switch name {
		case "[Content_Types].xml", "_rels/.rels", "word/document.xml":
			continue
		}
		writePart(zw, name, content)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func writePart(zw *zip.Writer, name, content string) {
	w, err := zw.Create(name)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		panic(err)
	}
}

// TableXML renders t as a <w:tbl> element.
func TableXML(t Table) string {
	var sb strings.Builder
	sb.WriteString("<w:tbl><w:tblPr/><w:tblGrid>")
	for i := 0; i < t.width(); i++ {
		sb.WriteString(`<w:gridCol w:w="1440"/>`)
	}
	sb.WriteString("</w:tblGrid>")

	for _, row := range t {
		sb.WriteString("<w:tr>")
		for _, c := range row {
			sb.WriteString("<w:tc><w:tcPr>")
			if s := span(c); s > 1 {
				fmt.Fprintf(&sb, `<w:gridSpan w:val="%d"/>`, s)
			}
			switch c.VMerge {
			case model.VMergeRestart:
				sb.WriteString(`<w:vMerge w:val="restart"/>`)
			case model.VMergeContinue:
				sb.WriteString(`<w:vMerge/>`)
			}
			sb.WriteString("</w:tcPr>")
			for _, para := range strings.Split(c.Text, "\n") {
				sb.WriteString("<w:p>")
				if para != "" {
					sb.WriteString(`<w:r><w:t xml:space="preserve">`)
					_ = xml.EscapeText(&sb, []byte(para))
					sb.WriteString("</w:t></w:r>")
				}
				sb.WriteString("</w:p>")
			}
			sb.WriteString("</w:tc>")
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}
