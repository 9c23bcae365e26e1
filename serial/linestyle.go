package serial

import (
	"bytes"
	"fmt"
)

// LineStyle selects the end-of-line convention on the serial line
type LineStyle int

const (
	// LineStyleLF terminates lines with 0x0a
	LineStyleLF LineStyle = iota
	// LineStyleCR terminates lines with 0x0d
	LineStyleCR
	// LineStyleCRLF terminates lines with 0x0d 0x0a
	LineStyleCRLF
	// LineStyleZero terminates lines with 0x00
	LineStyleZero
	// LineStyleSloppy accepts any of CR, LF, CRLF, 0xd0 (issued by some
	// keyboards instead of Return) and Zero on input, and emits CRLF on
	// output
	LineStyleSloppy
)

// String returns the textual form used in configuration
func (ls LineStyle) String() string {
	switch ls {
	case LineStyleLF:
		return "LF"
	case LineStyleCR:
		return "CR"
	case LineStyleCRLF:
		return "CRLF"
	case LineStyleZero:
		return "Zero"
	case LineStyleSloppy:
		return "Sloppy"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (ls LineStyle) MarshalText() ([]byte, error) {
	s := ls.String()
	if s == "unknown" {
		return nil, fmt.Errorf("unknown line style %d", int(ls))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (ls *LineStyle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "LF":
		*ls = LineStyleLF
	case "CR":
		*ls = LineStyleCR
	case "CRLF":
		*ls = LineStyleCRLF
	case "Zero":
		*ls = LineStyleZero
	case "Sloppy":
		*ls = LineStyleSloppy
	default:
		return fmt.Errorf("unknown line style %q", string(text))
	}
	return nil
}

// terminator returns the bytes emitted at the end of a written line
func (ls LineStyle) terminator() []byte {
	switch ls {
	case LineStyleCR:
		return []byte{'\r'}
	case LineStyleCRLF, LineStyleSloppy:
		return []byte{'\r', '\n'}
	case LineStyleZero:
		return []byte{0}
	default:
		return []byte{'\n'}
	}
}

// sloppy terminator bytes accepted on input
func isSloppyTerm(b byte) bool {
	return b == '\r' || b == '\n' || b == 0x00 || b == 0xd0
}

// scanLine looks for a complete line in buf according to the style. It
// returns the line (terminator stripped), the number of bytes consumed
// including the terminator, and whether a complete line was found.
func scanLine(buf []byte, style LineStyle) (line []byte, consumed int, found bool) {
	switch style {
	case LineStyleCRLF:
		if i := bytes.Index(buf, []byte{'\r', '\n'}); i >= 0 {
			return buf[:i], i + 2, true
		}
	case LineStyleSloppy:
		for i, b := range buf {
			if !isSloppyTerm(b) {
				continue
			}
			consumed = i + 1
			// fold a CRLF pair into one terminator
			if b == '\r' && i+1 < len(buf) && buf[i+1] == '\n' {
				consumed++
			}
			return buf[:i], consumed, true
		}
	default:
		term := style.terminator()[0]
		if i := bytes.IndexByte(buf, term); i >= 0 {
			return buf[:i], i + 1, true
		}
	}
	return nil, 0, false
}
