// Package loader reads program images: text files of whitespace separated
// hexadecimal 16-bit words, placed at consecutive addresses from 0.
package loader

import (
	"bufio"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/accsim/cpu"
)

const (
	LINE_LIMIT = 1 << 20 // Longest accepted program line, in bytes.
)

// Loader parses program images.
type Loader struct {
	Verbose bool // If set, enables verbose logging.
}

// parseWord parses a single hexadecimal word, with an optional 0x prefix.
func parseWord(word string) (value uint16, err error) {
	digits := word
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}

	v64, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		err = ErrParseWord(word)
		return
	}

	value = uint16(v64)
	return
}

// Parse parses an input stream into program words. Everything after a ';'
// or '#' on a line is a comment.
func (ld *Loader) Parse(input io.Reader) (words []uint16, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, LINE_LIMIT)

	var line string
	var lineno int

	defer func() {
		if err != nil && err != ErrTruncated {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if n := strings.IndexAny(text, ";#"); n >= 0 {
			text = text[:n]
		}
		line = strings.TrimSpace(text)

		for _, token := range strings.Fields(line) {
			var value uint16
			value, err = parseWord(token)
			if err != nil {
				return
			}
			if len(words) == cpu.MEMORY_SIZE {
				err = ErrTruncated
				return
			}
			words = append(words, value)
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if ld.Verbose {
		log.Printf("loader: parsed %d words from %d lines", len(words), lineno)
	}

	return
}

// LoadFile parses the program image at path. The file is closed before
// LoadFile returns.
func (ld *Loader) LoadFile(path string) (words []uint16, err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrOpen{Path: path, Err: err}
		return
	}
	defer inf.Close()

	if ld.Verbose {
		log.Printf("loader: %v", path)
	}

	words, err = ld.Parse(inf)
	return
}
