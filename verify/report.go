package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/bricklines/instr"
)

// Report is the outcome of checking one program.
type Report struct {
	Name    string
	Program instr.Program
	Checked *Checked
	Err     error
}

// OK tells if the program passed verification.
func (r *Report) OK() bool {
	return r.Err == nil
}

// GenerateReport verifies the program and collects the result.
func GenerateReport(name string, p instr.Program) *Report {
	r := &Report{
		Name:    name,
		Program: p,
	}

	r.Checked, r.Err = Verify(p)

	return r
}

// WriteReport writes the listing and the verdict. When verification failed,
// the line the error refers to is marked in the listing.
func (r *Report) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "PROGRAM CHECK: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	active := instr.NoActiveLine
	var verr *Error
	if errors.As(r.Err, &verr) {
		active = verr.Line - 1
	}

	fmt.Fprintln(w, instr.Listing{Active: active}.Render(r.Program))
	fmt.Fprintf(w, "\n%d lines, %d blocks\n", len(r.Program), r.countBlocks())

	if r.OK() {
		fmt.Fprintln(w, "✓ Structure is valid, program is ready to run.")
	} else {
		fmt.Fprintf(w, "⚠ %v\n", r.Err)
	}

	fmt.Fprintln(w)
}

func (r *Report) countBlocks() int {
	n := 0
	for _, in := range r.Program {
		if in.Kind().IsOpener() {
			n++
		}
	}

	return n
}

// SaveReportToFile writes the report to a file.
func (r *Report) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
