package serial

import "fmt"

// TerminalMode selects terminal emulation for input handling. The framework
// stores and resolves the parameter; interpretation belongs to the console
// layer sitting on top of the port.
type TerminalMode int

const (
	// ModePlain performs no terminal emulation
	ModePlain TerminalMode = iota
	// ModeVT100 enables VT100 escape handling in the console layer
	ModeVT100
)

// String returns the textual form used in configuration
func (m TerminalMode) String() string {
	switch m {
	case ModePlain:
		return "Plain"
	case ModeVT100:
		return "VT100"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (m TerminalMode) MarshalText() ([]byte, error) {
	s := m.String()
	if s == "unknown" {
		return nil, fmt.Errorf("unknown terminal mode %d", int(m))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *TerminalMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Plain":
		*m = ModePlain
	case "VT100":
		*m = ModeVT100
	default:
		return fmt.Errorf("unknown terminal mode %q", string(text))
	}
	return nil
}
