package docx

import (
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Alignment is a paragraph justification value (w:jc).
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// Schema order of the w:pPr and w:rPr children the package writes. New
// children are inserted before the first sibling that must follow them.
var (
	pPrOrder = []string{
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr", "widowControl",
		"numPr", "suppressLineNumbers", "pBdr", "shd", "tabs", "suppressAutoHyphens",
		"kinsoku", "wordWrap", "overflowPunct", "topLinePunct", "autoSpaceDE",
		"autoSpaceDN", "bidi", "adjustRightInd", "snapToGrid", "spacing", "ind",
		"contextualSpacing", "mirrorIndents", "suppressOverlap", "jc", "textDirection",
		"textAlignment", "textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr",
		"sectPr", "pPrChange",
	}
	rPrOrder = []string{
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike",
		"dstrike", "outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid",
		"vanish", "webHidden", "color", "spacing", "w", "kern", "position", "sz", "szCs",
		"highlight", "u", "effect", "bdr", "shd", "fitText", "vertAlign", "rtl", "cs",
		"em", "lang", "eastAsianLayout", "specVanish", "oMath",
	}
)

// run containers whose runs belong to the enclosing paragraph's text
var runContainers = map[string]bool{
	"hyperlink":  true,
	"ins":        true,
	"smartTag":   true,
	"fldSimple":  true,
	"customXml":  true,
	"sdt":        true,
	"sdtContent": true,
}

// Table is a w:tbl element.
type Table struct {
	el *etree.Element
	ns string
}

// Rows returns the table rows.
func (t *Table) Rows() []*Row {
	var out []*Row
	for _, el := range children(t.el, t.ns, "tr") {
		out = append(out, &Row{el: el, ns: t.ns})
	}
	return out
}

// Row is a w:tr element.
type Row struct {
	el *etree.Element
	ns string
}

// Cells returns the row's cells.
func (r *Row) Cells() []*Cell {
	var out []*Cell
	for _, el := range children(r.el, r.ns, "tc") {
		out = append(out, &Cell{el: el, ns: r.ns})
	}
	return out
}

// Cell is a w:tc element.
type Cell struct {
	el *etree.Element
	ns string
}

// Paragraphs returns the paragraphs directly inside the cell.
func (c *Cell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range children(c.el, c.ns, "p") {
		out = append(out, &Paragraph{el: el, ns: c.ns})
	}
	return out
}

// Text returns the cell's paragraph texts joined by newlines.
func (c *Cell) Text() string {
	paras := c.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// SetText replaces the cell content with text, one paragraph per line. The
// first paragraph's properties and its first run's properties are reused for
// every new paragraph and run; cell properties are kept.
func (c *Cell) SetText(text string) {
	var pPr, rPr *etree.Element
	if paras := c.Paragraphs(); len(paras) > 0 {
		if el := child(paras[0].el, c.ns, "pPr"); el != nil {
			pPr = el
		}
		if runs := paras[0].Runs(); len(runs) > 0 {
			if el := child(runs[0].el, c.ns, "rPr"); el != nil {
				rPr = el
			}
		}
	}

	for _, tok := range append([]etree.Token(nil), c.el.Child...) {
		el, ok := tok.(*etree.Element)
		if !ok || (el.Space == c.ns && el.Tag == "tcPr") {
			continue
		}
		c.el.RemoveChild(el)
	}

	for _, line := range strings.Split(text, "\n") {
		p := c.el.CreateElement(qname(c.ns, "p"))
		if pPr != nil {
			p.AddChild(pPr.Copy())
		}
		r := p.CreateElement(qname(c.ns, "r"))
		if rPr != nil {
			r.AddChild(rPr.Copy())
		}
		t := r.CreateElement(qname(c.ns, "t"))
		t.CreateAttr("xml:space", "preserve")
		t.SetText(line)
	}
}

// Paragraph is a w:p element.
type Paragraph struct {
	el *etree.Element
	ns string
}

// Runs returns the paragraph's runs, including runs nested in hyperlinks,
// insertions and content controls. Deleted runs are skipped.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			if c.Space != p.ns {
				continue
			}
			switch {
			case c.Tag == "r":
				out = append(out, &Run{el: c, ns: p.ns})
			case runContainers[c.Tag]:
				walk(c)
			}
		}
	}
	walk(p.el)
	return out
}

// Text concatenates the text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// Alignment returns the paragraph justification, or "" when unset.
func (p *Paragraph) Alignment() Alignment {
	pPr := child(p.el, p.ns, "pPr")
	if pPr == nil {
		return ""
	}
	jc := child(pPr, p.ns, "jc")
	if jc == nil {
		return ""
	}
	return Alignment(jc.SelectAttrValue(qname(p.ns, "val"), ""))
}

// SetAlignment sets the paragraph justification.
func (p *Paragraph) SetAlignment(a Alignment) {
	pPr := firstChild(p.el, p.ns, "pPr")
	jc := ensureChild(pPr, p.ns, "jc", pPrOrder)
	jc.CreateAttr(qname(p.ns, "val"), string(a))
}

// Run is a w:r element.
type Run struct {
	el *etree.Element
	ns string
}

// Text returns the run text; tabs and breaks become \t and \n.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, c := range r.el.ChildElements() {
		if c.Space != r.ns {
			continue
		}
		switch c.Tag {
		case "t":
			sb.WriteString(c.Text())
		case "tab":
			sb.WriteByte('\t')
		case "br", "cr":
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SetFont sets the run's font family and size in points.
func (r *Run) SetFont(name string, sizePt float64) {
	rPr := firstChild(r.el, r.ns, "rPr")

	fonts := ensureChild(rPr, r.ns, "rFonts", rPrOrder)
	for _, attr := range []string{"ascii", "hAnsi", "cs"} {
		fonts.CreateAttr(qname(r.ns, attr), name)
	}

	halfPoints := strconv.Itoa(int(math.Round(sizePt * 2)))
	ensureChild(rPr, r.ns, "sz", rPrOrder).CreateAttr(qname(r.ns, "val"), halfPoints)
	ensureChild(rPr, r.ns, "szCs", rPrOrder).CreateAttr(qname(r.ns, "val"), halfPoints)
}

// SetBold turns bold on or off for the run.
func (r *Run) SetBold(on bool) {
	rPr := firstChild(r.el, r.ns, "rPr")
	b := ensureChild(rPr, r.ns, "b", rPrOrder)
	if on {
		b.RemoveAttr(qname(r.ns, "val"))
		return
	}
	b.CreateAttr(qname(r.ns, "val"), "0")
}

// Bold reports whether the run carries direct bold formatting.
func (r *Run) Bold() bool {
	rPr := child(r.el, r.ns, "rPr")
	if rPr == nil {
		return false
	}
	b := child(rPr, r.ns, "b")
	if b == nil {
		return false
	}
	switch b.SelectAttrValue(qname(r.ns, "val"), "true") {
	case "0", "false", "off":
		return false
	}
	return true
}

// Font returns the run's ASCII font family and size in points, zero when unset.
func (r *Run) Font() (string, float64) {
	rPr := child(r.el, r.ns, "rPr")
	if rPr == nil {
		return "", 0
	}
	var name string
	if fonts := child(rPr, r.ns, "rFonts"); fonts != nil {
		name = fonts.SelectAttrValue(qname(r.ns, "ascii"), "")
	}
	var size float64
	if sz := child(rPr, r.ns, "sz"); sz != nil {
		if v, err := strconv.Atoi(sz.SelectAttrValue(qname(r.ns, "val"), "")); err == nil {
			size = float64(v) / 2
		}
	}
	return name, size
}

func qname(ns, local string) string {
	if ns == "" {
		return local
	}
	return ns + ":" + local
}

func child(parent *etree.Element, ns, local string) *etree.Element {
	for _, c := range parent.ChildElements() {
		if c.Space == ns && c.Tag == local {
			return c
		}
	}
	return nil
}

func children(parent *etree.Element, ns, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range parent.ChildElements() {
		if c.Space == ns && c.Tag == local {
			out = append(out, c)
		}
	}
	return out
}

// firstChild returns the named child, creating it as the first element child
// when absent. Used for w:pPr and w:rPr, which must lead their parent.
func firstChild(parent *etree.Element, ns, local string) *etree.Element {
	if el := child(parent, ns, local); el != nil {
		return el
	}
	el := etree.NewElement(qname(ns, local))
	parent.InsertChildAt(0, el)
	return el
}

func ensureChild(parent *etree.Element, ns, local string, order []string) *etree.Element {
	if el := child(parent, ns, local); el != nil {
		return el
	}

	el := etree.NewElement(qname(ns, local))
	rank := indexOf(order, local)
	if rank >= 0 {
		for i, tok := range parent.Child {
			sibling, ok := tok.(*etree.Element)
			if !ok || sibling.Space != ns {
				continue
			}
			if indexOf(order, sibling.Tag) > rank {
				parent.InsertChildAt(i, el)
				return el
			}
		}
	}
	parent.AddChild(el)
	return el
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
