// Package rtfx converts processor HTML to RTF and escapes text for RTF
// 1.5 readers. The escape form is `\uN?` where N is a signed 16-bit
// codepoint and `?` is the substitute character shown by pre-1.5 readers.
package rtfx

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
)

const (
	header = "{\\rtf1\\ansi\\deff0\n"
	footer = "\n}"
)

// EncodeUnicode escapes control characters, the RTF specials \ { }, and
// every codepoint above 0x7f as signed 16-bit \uN? commands. Plain
// printable ASCII passes through unchanged. Codepoints outside the BMP
// are emitted as a UTF-16 surrogate pair of commands.
func EncodeUnicode(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			writeEscape(&b, uint16(r))
		case r < 0x20 || r > 0x7f && r <= 0xffff:
			writeEscape(&b, uint16(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			writeEscape(&b, uint16(hi))
			writeEscape(&b, uint16(lo))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeEscape(b *strings.Builder, unit uint16) {
	b.WriteString("\\u")
	// Signed 16-bit value per the RTF spec.
	b.WriteString(strconv.Itoa(int(int16(unit))))
	b.WriteByte('?')
}

// tag control words; close forms start on a fresh line.
var rtfOpen = map[string]string{
	"i":     "\\i ",
	"b":     "\\b ",
	"sup":   "\\super ",
	"super": "\\super ",
}

var rtfClose = map[string]string{
	"i":     "\n\\i0 ",
	"b":     "\n\\b0 ",
	"sup":   "\n\\super0 ",
	"super": "\n\\super0 ",
}

// FromHTML converts an HTML citation fragment to an RTF document.
// Italic, bold, and superscript markup map to their RTF control words;
// unknown tags are logged and dropped while their text is kept.
func FromHTML(s string) (string, error) {
	var b strings.Builder
	b.WriteString(header)
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			b.WriteString(footer)
			return b.String(), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if cw, ok := rtfOpen[string(name)]; ok {
				b.WriteString(cw)
			} else {
				log.Warn("unknown tag", "tag", string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if cw, ok := rtfClose[string(name)]; ok {
				b.WriteString(cw)
			} else {
				log.Warn("unknown tag", "tag", string(name))
			}
		case html.TextToken:
			b.WriteString(EncodeUnicode(string(z.Text())))
		}
	}
}
