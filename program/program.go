// Package program reads LEGO Lines programs saved by the original Commodore
// and Apple II editors.
package program

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/instr"
)

// Format is a program file layout.
type Format int

const (
	AutoDetect Format = iota
	Commodore
	AppleII
)

func (f Format) String() string {
	switch f {
	case AutoDetect:
		return "auto"
	case Commodore:
		return "commodore"
	case AppleII:
		return "apple"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrUnknownFormat is returned for format names that are not supported.
var ErrUnknownFormat = errors.New("unknown file format")

// ErrMalformed is returned when a file does not follow its layout.
var ErrMalformed = errors.New("malformed program file")

// ParseFormat converts a format name as written in config files and flags.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return AutoDetect, nil
	case "commodore", "c64", "cbm":
		return Commodore, nil
	case "apple", "appleii", "apple2":
		return AppleII, nil
	default:
		return AutoDetect, errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// DecodeError is a problem with one program line of a file.
type DecodeError struct {
	Format Format
	// Line is the 1-based program line, or 0 for problems with the file as a
	// whole.
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Format, e.Err)
	}

	return fmt.Sprintf("%s: line %d: %v", e.Format, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func malformed(f Format, line int, format string, args ...interface{}) error {
	return &DecodeError{
		Format: f,
		Line:   line,
		Err:    errors.Wrapf(ErrMalformed, format, args...),
	}
}

// LoadFile reads and decodes a program file.
func LoadFile(path string, f Format) (instr.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read program")
	}

	return Decode(data, f)
}

// Decode decodes a program image. AutoDetect picks Commodore when the image
// has its fixed size and markers, Apple II otherwise.
func Decode(data []byte, f Format) (instr.Program, error) {
	if f == AutoDetect {
		f = Detect(data)
	}

	switch f {
	case Commodore:
		return decodeCommodore(data)
	case AppleII:
		return decodeApple(data)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%v", f)
	}
}

// Detect guesses the format of a program image.
func Detect(data []byte) Format {
	if looksLikeCommodore(data) {
		return Commodore
	}

	return AppleII
}
