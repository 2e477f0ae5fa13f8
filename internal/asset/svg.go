package asset

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// defaultSVGTargetSize is the square side every SVG costume is
// retargeted to when scaling is enabled, so every sprite's default
// rotation center lands at the same point regardless of its source
// artwork's native size.
const defaultSVGTargetSize = 64.0

// prepareSVG rewrites an SVG costume's root element to a normalized
// viewBox/width/height and wraps its content in a translate+scale
// group, returning the rewritten bytes and the costume's rotation
// center. When scaling is disabled the bytes pass through unchanged
// and the rotation center is just the artwork's own midpoint.
func prepareSVG(data []byte, scale bool) ([]byte, float64, float64, error) {
	root, inner, err := parseSVGRoot(data)
	if err != nil {
		return nil, 0, 0, err
	}
	minX, minY, width, height, err := readSVGBounds(root)
	if err != nil {
		return nil, 0, 0, err
	}
	if !scale {
		return data, width / 2, height / 2, nil
	}

	scaleX := defaultSVGTargetSize / width
	scaleY := defaultSVGTargetSize / height
	transform := fmt.Sprintf("translate(%s %s) scale(%s %s)", fmtNum(-minX), fmtNum(-minY), fmtNum(scaleX), fmtNum(scaleY))
	wrapped := fmt.Sprintf("<g transform=%s>%s</g>", quoteAttr(transform), inner)

	attrs := setAttr(root.Attr, "viewBox", fmt.Sprintf("0 0 %s %s", fmtNum(defaultSVGTargetSize), fmtNum(defaultSVGTargetSize)))
	attrs = setAttr(attrs, "width", fmtNum(defaultSVGTargetSize))
	attrs = setAttr(attrs, "height", fmtNum(defaultSVGTargetSize))

	var out bytes.Buffer
	writeOpenTag(&out, root.Name, attrs)
	out.WriteString(wrapped)
	out.WriteString("</")
	out.WriteString(root.Name.Local)
	out.WriteString(">")

	centered := defaultSVGTargetSize / 2
	return out.Bytes(), centered, centered, nil
}

// parseSVGRoot decodes just enough of data to capture the root
// element's tag and attributes, plus the raw (unparsed) bytes of its
// children, so everything other than the root tag's own attributes
// passes through byte-for-byte.
func parseSVGRoot(data []byte) (xml.StartElement, []byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root xml.StartElement
	started := false
	depth := 0
	var innerStart, innerEnd int64

	for {
		offsetBefore := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return xml.StartElement{}, nil, errf("invalid SVG file: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if !started {
				root = t.Copy()
				started = true
				innerStart = dec.InputOffset()
			}
		case xml.EndElement:
			depth--
			if started && depth == 0 {
				innerEnd = offsetBefore
				return root, data[innerStart:innerEnd], nil
			}
		}
	}
	return xml.StartElement{}, nil, errf("invalid SVG file: no root element found")
}

var viewBoxSplit = regexp.MustCompile(`[\s,]+`)
var svgLengthPattern = regexp.MustCompile(`^\s*([+-]?(?:\d+(?:\.\d*)?|\.\d+))`)

func readSVGBounds(root xml.StartElement) (minX, minY, width, height float64, err error) {
	if viewBox := attrValue(root.Attr, "viewBox"); viewBox != "" {
		parts := viewBoxSplit.Split(strings.TrimSpace(viewBox), -1)
		if len(parts) == 4 {
			values := make([]float64, 4)
			ok := true
			for i, part := range parts {
				v, perr := strconv.ParseFloat(part, 64)
				if perr != nil {
					return 0, 0, 0, 0, errf("invalid SVG viewBox '%s': %v", viewBox, perr)
				}
				values[i] = v
				if part == "" {
					ok = false
				}
			}
			if ok {
				if values[2] <= 0 || values[3] <= 0 {
					return 0, 0, 0, 0, errf("SVG viewBox must have positive width/height: '%s'", viewBox)
				}
				return values[0], values[1], values[2], values[3], nil
			}
		}
	}

	width = parseSVGLength(attrValue(root.Attr, "width"))
	height = parseSVGLength(attrValue(root.Attr, "height"))
	if width > 0 && height > 0 {
		return 0, 0, width, height, nil
	}
	return 0, 0, defaultSVGTargetSize, defaultSVGTargetSize, nil
}

func parseSVGLength(value string) float64 {
	if value == "" {
		return 0
	}
	match := svgLengthPattern.FindStringSubmatch(value)
	if match == nil {
		return 0
	}
	n, err := strconv.ParseFloat(match[1], 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

func setAttr(attrs []xml.Attr, local, value string) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs)+1)
	replaced := false
	for _, a := range attrs {
		if a.Name.Local == local && a.Name.Space == "" {
			out = append(out, xml.Attr{Name: a.Name, Value: value})
			replaced = true
			continue
		}
		out = append(out, a)
	}
	if !replaced {
		out = append(out, xml.Attr{Name: xml.Name{Local: local}, Value: value})
	}
	return out
}

func writeOpenTag(out *bytes.Buffer, name xml.Name, attrs []xml.Attr) {
	out.WriteString("<")
	out.WriteString(name.Local)
	for _, a := range attrs {
		out.WriteString(" ")
		out.WriteString(attrName(a.Name))
		out.WriteString("=")
		out.WriteString(quoteAttr(a.Value))
	}
	out.WriteString(">")
}

func attrName(name xml.Name) string {
	switch {
	case name.Space == "xmlns":
		return "xmlns:" + name.Local
	case name.Local == "xmlns":
		return "xmlns"
	case name.Space != "":
		return name.Space + ":" + name.Local
	default:
		return name.Local
	}
}

func quoteAttr(value string) string {
	escaped := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(value)
	return `"` + escaped + `"`
}

// fmtNum renders a coordinate the way the reference compiler does:
// whole numbers without a decimal point, everything else trimmed of
// trailing zeros.
func fmtNum(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	s := strconv.FormatFloat(value, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
