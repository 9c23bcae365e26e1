// Package serial implements a serial-line transport as a regular component:
// its configuration is declared as parameters reachable through descriptor
// resolution, and its byte-level I/O goes through an injectable Port so the
// framework stays free of device handling.
package serial

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/nizvoo/jevois/component"
	"github.com/nizvoo/jevois/errors"
	"github.com/nizvoo/jevois/param"
)

// Baudrates is the closed set of accepted baud rates
var Baudrates = []int{
	110, 300, 600, 1200, 2400, 4800, 9600, 14400, 19200, 38400, 57600, 115200,
	230400, 460800, 921600, 1000000, 1152000, 1500000, 2000000,
	2500000, 3000000, 3500000, 4000000,
}

// FormatPattern constrains the data format string: data bits, parity,
// stop bits, e.g. "8N1".
const FormatPattern = `^[5-8][NEO][12]$`

// Port is the byte-level device beneath the component
type Port interface {
	io.ReadWriteCloser
}

// Opener opens the device named by the devname parameter. The default opener
// opens it as a file; tests and exotic transports inject their own.
type Opener func(devname string) (Port, error)

func defaultOpener(devname string) (Port, error) {
	f, err := os.OpenFile(devname, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Serial is the serial-line transport component. Reads and writes are
// serialized through a mutex; concurrent use from multiple goroutines is
// safe but interleaves at line granularity.
type Serial struct {
	*component.Base

	devname   *param.Param[string]
	baudrate  *param.Param[int]
	format    *param.Param[string]
	flowsoft  *param.Param[bool]
	flowhard  *param.Param[bool]
	linestyle *param.Param[LineStyle]
	mode      *param.Param[TerminalMode]

	open Opener

	mu      sync.Mutex
	port    Port
	partial []byte
}

// Option configures a Serial at construction
type Option func(*Serial)

// WithOpener replaces the device opener
func WithOpener(open Opener) Option {
	return func(s *Serial) {
		if open != nil {
			s.open = open
		}
	}
}

// New builds a Serial on the given base, declaring its parameter set
func New(base *component.Base, opts ...Option) (*Serial, error) {
	s := &Serial{
		Base: base,
		open: defaultOpener,
		devname: param.MustNew(param.Def[string]{
			Name:        "devname",
			Description: "Device file name",
			Default:     "",
		}),
		baudrate: param.MustNew(param.Def[int]{
			Name:        "baudrate",
			Description: "Baudrate",
			Default:     115200,
			Valid:       param.Enum(Baudrates...),
		}),
		format: param.MustNew(param.Def[string]{
			Name:        "format",
			Description: "Data format",
			Default:     "8N1",
			Valid:       param.Regex(FormatPattern),
		}),
		flowsoft: param.MustNew(param.Def[bool]{
			Name:        "flowsoft",
			Description: "Use soft (XON/XOFF) flow control",
			Default:     false,
		}),
		flowhard: param.MustNew(param.Def[bool]{
			Name:        "flowhard",
			Description: "Use hard (RTS/CTS) flow control",
			Default:     false,
		}),
		linestyle: param.MustNew(param.Def[LineStyle]{
			Name: "linestyle",
			Description: "End of line style: LF is for 0x0a; CR is for 0x0d; CRLF is for " +
				"0x0d 0x0a; Zero is for 0x00; Sloppy accepts any of CR, LF, CRLF, 0xd0 " +
				"and Zero as input and issues CRLF in outputs",
			Default: LineStyleSloppy,
		}),
		mode: param.MustNew(param.Def[TerminalMode]{
			Name:        "mode",
			Description: "Terminal emulation mode for input",
			Default:     ModePlain,
		}),
	}
	for _, opt := range opts {
		opt(s)
	}

	err := s.AddParam(s.devname, s.baudrate, s.format, s.flowsoft, s.flowhard, s.linestyle, s.mode)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Factory returns a component factory for use with AddSub or a Registry
func Factory(opts ...Option) component.Factory {
	return func(base *component.Base) (component.Component, error) {
		return New(base, opts...)
	}
}

// Register registers the serial component type and its parameter schema
func Register(reg *component.Registry, opts ...Option) error {
	return reg.Register(component.Registration{
		Name:        "serial",
		Description: "Serial-line transport with configurable framing and flow control",
		Version:     "1.0.0",
		Factory:     Factory(opts...),
		Params: []component.ParamInfo{
			{Name: "devname", Description: "Device file name", Type: "string"},
			{Name: "baudrate", Description: "Baudrate", Type: "int", Default: "115200"},
			{Name: "format", Description: "Data format", Type: "string", Default: "8N1"},
			{Name: "flowsoft", Description: "Use soft (XON/XOFF) flow control", Type: "bool", Default: "false"},
			{Name: "flowhard", Description: "Use hard (RTS/CTS) flow control", Type: "bool", Default: "false"},
			{Name: "linestyle", Description: "End of line style", Type: "enum", Default: "Sloppy",
				Enum: []string{"LF", "CR", "CRLF", "Zero", "Sloppy"}},
			{Name: "mode", Description: "Terminal emulation mode for input", Type: "enum", Default: "Plain",
				Enum: []string{"Plain", "VT100"}},
		},
	})
}

// Devname returns the configured device file name
func (s *Serial) Devname() string { return s.devname.Get() }

// Baudrate returns the configured baud rate
func (s *Serial) Baudrate() int { return s.baudrate.Get() }

// Format returns the configured data format string
func (s *Serial) Format() string { return s.format.Get() }

// PostInit opens the device once the component joins an initialized tree
func (s *Serial) PostInit() error {
	dev := s.devname.Get()
	if dev == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: devname", errors.ErrMissingConfig),
			"Serial", "PostInit", "device configuration")
	}

	port, err := s.open(dev)
	if err != nil {
		return errors.Wrap(err, "Serial", "PostInit", fmt.Sprintf("open of %q", dev))
	}

	s.mu.Lock()
	s.port = port
	s.partial = nil
	s.mu.Unlock()

	s.Logger().Debug("serial port opened",
		"devname", dev, "baudrate", s.baudrate.Get(), "format", s.format.Get())
	return nil
}

// PostUninit closes the device
func (s *Serial) PostUninit() error {
	s.mu.Lock()
	port := s.port
	s.port = nil
	s.partial = nil
	s.mu.Unlock()

	if port == nil {
		return nil
	}
	if err := port.Close(); err != nil {
		return errors.Wrap(err, "Serial", "PostUninit", "port close")
	}
	return nil
}

// ReadSome reads available bytes and reports whether a complete line has
// accumulated. It returns the line (terminator stripped) and true once one
// is complete; until then it returns false. Intended for non-blocking use.
func (s *Serial) ReadSome() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return "", false, errors.WrapInvalid(errors.ErrPortClosed, "Serial", "ReadSome", "port check")
	}

	style := s.linestyle.Get()

	// a prior read may already hold a complete line
	if line, consumed, found := scanLine(s.partial, style); found {
		s.partial = s.partial[consumed:]
		return string(line), true, nil
	}

	buf := make([]byte, 256)
	n, err := s.port.Read(buf)
	if n > 0 {
		s.partial = append(s.partial, buf[:n]...)
	}
	if line, consumed, found := scanLine(s.partial, style); found {
		s.partial = s.partial[consumed:]
		return string(line), true, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "Serial", "ReadSome", "port read")
	}
	return "", false, nil
}

// ReadString reads until a complete line per the linestyle convention and
// returns it without the terminator. It keeps reading until the port
// delivers one, so it only makes sense on a blocking port.
func (s *Serial) ReadString() (string, error) {
	for {
		line, complete, err := s.ReadSome()
		if err != nil {
			return "", err
		}
		if complete {
			return line, nil
		}
	}
}

// WriteString writes a string followed by the line terminator of the
// configured linestyle. The string itself must not include a terminator.
func (s *Serial) WriteString(str string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return errors.WrapInvalid(errors.ErrPortClosed, "Serial", "WriteString", "port check")
	}

	out := append([]byte(str), s.linestyle.Get().terminator()...)
	if _, err := s.port.Write(out); err != nil {
		return errors.Wrap(err, "Serial", "WriteString", "port write")
	}
	return nil
}

// Read attempts to read up to len(p) raw bytes from the port
func (s *Serial) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return 0, errors.WrapInvalid(errors.ErrPortClosed, "Serial", "Read", "port check")
	}
	return s.port.Read(p)
}

// Write writes raw bytes to the port
func (s *Serial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return 0, errors.WrapInvalid(errors.ErrPortClosed, "Serial", "Write", "port check")
	}
	return s.port.Write(p)
}

// Flush discards any partially accumulated input line
func (s *Serial) Flush() {
	s.mu.Lock()
	s.partial = nil
	s.mu.Unlock()
}
