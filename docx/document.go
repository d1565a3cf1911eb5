package docx

import "encoding/xml"

// relationshipsXML represents _rels/*.rels files.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName xml.Name      `xml:"tbl"`
	Grid    tableGridXML  `xml:"tblGrid"`
	Rows    []tableRowXML `xml:"tr"`
}

// tableGridXML represents the table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W string `xml:"w,attr"` // Width in twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	XMLName    xml.Name       `xml:"tr"`
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	GridBefore valXML `xml:"gridBefore"` // Grid columns skipped before the first cell
	GridAfter  valXML `xml:"gridAfter"`  // Grid columns skipped after the last cell
}

// tableCellXML represents a table cell (<w:tc>). Blocks keeps paragraphs
// and nested tables in document order; see UnmarshalXML.
type tableCellXML struct {
	Properties cellPropsXML
	Blocks     []cellBlockXML
}

// cellBlockXML is one block-level child of a cell.
type cellBlockXML struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// cellPropsXML represents cell properties (<w:tcPr>).
type cellPropsXML struct {
	GridSpan valXML  `xml:"gridSpan"`
	VMerge   *valXML `xml:"vMerge"` // nil when absent
	HMerge   *valXML `xml:"hMerge"` // legacy horizontal merge
}

// valXML represents an element carrying a single w:val attribute.
type valXML struct {
	Val string `xml:"val,attr"`
}

// paragraphXML represents a paragraph (<w:p>). Items keeps runs and run
// containers (hyperlinks, insertions, smart tags, simple fields) in order.
type paragraphXML struct {
	XMLName xml.Name           `xml:"p"`
	Items   []paragraphItemXML `xml:",any"`
}

// paragraphItemXML is a direct child of a paragraph. A <w:r> item carries
// its run content in Content; a container carries its runs in Runs.
type paragraphItemXML struct {
	XMLName xml.Name
	Runs    []runXML     `xml:"r"`
	Content []runItemXML `xml:",any"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Content []runItemXML `xml:",any"`
}

// runItemXML is a direct child of a run: text, tab, break and so on.
type runItemXML struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// UnmarshalXML decodes a cell, keeping paragraphs and nested tables in
// document order. Content controls and custom XML wrappers are descended
// into; everything else is skipped.
func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tcPr":
				if err := d.DecodeElement(&c.Properties, &el); err != nil {
					return err
				}
			case "p":
				p := &paragraphXML{}
				if err := d.DecodeElement(p, &el); err != nil {
					return err
				}
				c.Blocks = append(c.Blocks, cellBlockXML{Paragraph: p})
			case "tbl":
				t := &tableXML{}
				if err := d.DecodeElement(t, &el); err != nil {
					return err
				}
				c.Blocks = append(c.Blocks, cellBlockXML{Table: t})
			case "sdt", "sdtContent", "customXml":
				depth++
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}
