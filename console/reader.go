package console

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// LineReader reads one command line at a time. At end of input it returns
// io.EOF.
type LineReader interface {
	ReadLine(prompt string) (line string, err error)
}

// LINE_LIMIT is the longest command line accepted by a ScanReader.
const LINE_LIMIT = 64 * 1024

// ScanReader reads lines from any io.Reader, writing the prompt to output
// before each read.
type ScanReader struct {
	reader *bufio.Reader
	output io.Writer
}

var _ LineReader = (*ScanReader)(nil)

// NewScanReader creates a line reader on input. The prompt is written to
// output, unless output is nil.
func NewScanReader(input io.Reader, output io.Writer) *ScanReader {
	return &ScanReader{
		reader: bufio.NewReader(input),
		output: output,
	}
}

// ReadLine returns the next line, without its line ending. A line longer
// than LINE_LIMIT is consumed in full and reported as ErrLineTooLong.
func (sr *ScanReader) ReadLine(prompt string) (line string, err error) {
	if sr.output != nil {
		_, err = io.WriteString(sr.output, prompt)
		if err != nil {
			return
		}
	}

	var buf []byte
	var started, tooLong bool
	for {
		chunk, more, rerr := sr.reader.ReadLine()
		if rerr != nil {
			if !started {
				err = rerr
				return
			}
			break
		}
		started = true

		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > LINE_LIMIT {
				tooLong = true
				buf = nil
			}
		}

		if !more {
			break
		}
	}

	if tooLong {
		err = ErrLineTooLong
		return
	}

	line = string(buf)
	return
}

// TermReader is a line editor with history for interactive terminals. The
// terminal is only in raw mode while a line is being read, so a running
// program can still be interrupted.
type TermReader struct {
	file     *os.File
	terminal *term.Terminal
}

var _ LineReader = (*TermReader)(nil)

// IsTerminal returns true if file is an interactive terminal.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// NewTermReader creates a line editor reading from the terminal input, and
// echoing to output.
func NewTermReader(input *os.File, output io.Writer) *TermReader {
	rw := struct {
		io.Reader
		io.Writer
	}{input, output}

	return &TermReader{
		file:     input,
		terminal: term.NewTerminal(rw, ""),
	}
}

func (tr *TermReader) ReadLine(prompt string) (line string, err error) {
	fd := int(tr.file.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, state)

	tr.terminal.SetPrompt(prompt)
	line, err = tr.terminal.ReadLine()
	return
}
