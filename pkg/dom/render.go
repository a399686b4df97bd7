package dom

import (
	"bytes"
	"io"
	"strings"
)

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements have their text content written without escaping.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// HTML renders el and its subtree to a string.
func HTML(el Element) string {
	var buf bytes.Buffer
	_ = Render(&buf, el)
	return buf.String()
}

// Render streams el and its subtree as HTML to w. Element properties
// other than "text" are written as attributes when no attribute of the same
// name exists, so an input's value shows up in the markup.
func Render(w io.Writer, el Element) error {
	if el == nil {
		return nil
	}
	if el.Tag() == TextTag {
		return writeString(w, escapeHTML(el.Property("text")))
	}

	tag := el.Tag()
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)

	attrs := el.Attributes()
	for _, a := range attrs {
		writeAttr(&b, a.Name, a.Value)
	}
	if s := el.Style().String(); s != "" {
		if _, ok := el.GetAttribute("style"); !ok {
			writeAttr(&b, "style", s)
		}
	}
	if v := el.Property("value"); v != "" {
		if _, ok := el.GetAttribute("value"); !ok {
			writeAttr(&b, "value", v)
		}
	}
	b.WriteByte('>')
	if err := writeString(w, b.String()); err != nil {
		return err
	}

	if voidElements[tag] {
		return nil
	}

	for _, child := range el.Children() {
		if rawTextElements[tag] && child.Tag() == TextTag {
			if err := writeString(w, child.Property("text")); err != nil {
				return err
			}
			continue
		}
		if err := Render(w, child); err != nil {
			return err
		}
	}

	return writeString(w, "</"+tag+">")
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	if value == "" {
		return
	}
	b.WriteString(`="`)
	b.WriteString(escapeAttr(value))
	b.WriteByte('"')
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// Whitespace that could break attribute parsing is escaped as well.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteString(escapeHTML(string(r)))
		}
	}

	return buf.String()
}
