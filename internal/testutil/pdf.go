// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
)

// BuildTextPDF assembles a minimal single-page PDF that shows each line in
// its own text object, one below the other. Line bytes are written verbatim
// and decoded as WinAnsiEncoding, so "\x93" and "\x94" render as curly quotes.
func BuildTextPDF(lines ...string) []byte {
	var stream strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&stream, "BT\n/F1 12 Tf\n72 %d Td\n(%s) Tj\nET\n", 720-14*i, escapePDFString(line))
	}
	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"
	return assemblePDF(stream.String(), font)
}

// BuildToUnicodePDF assembles a single-line PDF whose font has no encoding of
// its own: glyph codes 1..n are only mapped back to text by a ToUnicode CMap,
// the way subset-embedded fonts are written.
func BuildToUnicodePDF(text string) []byte {
	codes, glyphs := glyphCodes(text)

	var cmap strings.Builder
	cmap.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	cmap.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	cmap.WriteString("1 begincodespacerange\n<00> <FF>\nendcodespacerange\n")
	fmt.Fprintf(&cmap, "%d beginbfchar\n", len(glyphs))
	for i, r := range glyphs {
		fmt.Fprintf(&cmap, "<%02X> <%04X>\n", i+1, r)
	}
	cmap.WriteString("endbfchar\nendcmap\nCMapName currentdict /CMap defineresource pop\nend\nend")

	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /ToUnicode 6 0 R >>"
	return assemblePDF(codeStream(codes), font, streamObject(cmap.String()))
}

// BuildDifferencesPDF assembles a single-line PDF whose font remaps glyph
// codes 1..n to named glyphs through an /Encoding /Differences array.
func BuildDifferencesPDF(text string) []byte {
	codes, glyphs := glyphCodes(text)

	var names strings.Builder
	names.WriteString("1")
	for _, r := range glyphs {
		names.WriteString(" /" + glyphName(r))
	}

	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding << /Type /Encoding /Differences [" +
		names.String() + "] >> >>"
	return assemblePDF(codeStream(codes), font)
}

// glyphCodes assigns each distinct rune of text a one-byte code starting at 1,
// in order of first appearance.
func glyphCodes(text string) ([]byte, []rune) {
	index := make(map[rune]byte)
	var glyphs []rune
	var codes []byte
	for _, r := range text {
		code, ok := index[r]
		if !ok {
			glyphs = append(glyphs, r)
			code = byte(len(glyphs))
			index[r] = code
		}
		codes = append(codes, code)
	}
	return codes, glyphs
}

func glyphName(r rune) string {
	switch {
	case r == ' ':
		return "space"
	case r == '.':
		return "period"
	case r == ',':
		return "comma"
	case r >= '0' && r <= '9':
		return []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}[r-'0']
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return string(r)
	}
	panic(fmt.Sprintf("testutil: no glyph name for %q", r))
}

func codeStream(codes []byte) string {
	return fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n<%X> Tj\nET\n", codes)
}

func streamObject(data string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(data), data)
}

// assemblePDF lays out catalog, page tree, page, content stream and the /F1
// font as objects 1-5, followed by any extra objects the font refers to.
func assemblePDF(content, font string, extra ...string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		streamObject(content),
		font,
	}
	objects = append(objects, extra...)

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return []byte(b.String())
}

func escapePDFString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	return strings.ReplaceAll(s, ")", `\)`)
}

// ArticleHTML wraps body in the markup layout of an encyclopedia article page,
// including the boilerplate panels the extractor is expected to strip.
func ArticleHTML(body string) string {
	return `<!DOCTYPE html>
<html>
<head><title>Law of Bhutan</title></head>
<body>
<div id="mw-navigation">Main menu</div>
<div id="mw-content-text">
<table class="infobox"><tr><td>Infobox panel</td></tr></table>
` + body + `
<div class="reflist">Reference list</div>
<div class="navbox">Navigation box</div>
<div class="printfooter">Retrieved from footer</div>
</div>
<footer>Page footer</footer>
</body>
</html>`
}
