package console

import (
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// splitCommand splits a line into its command word and the remaining
// argument string.
func splitCommand(line string) (cmd string, arg string) {
	line = strings.TrimSpace(line)

	n := strings.IndexFunc(line, unicode.IsSpace)
	if n < 0 {
		cmd = line
		return
	}

	cmd = line[:n]
	arg = strings.TrimLeftFunc(line[n:], unicode.IsSpace)
	return
}

// splitWords splits an argument string on whitespace, keeping each
// $(...) expression together as one word.
func splitWords(arg string) (words []string, err error) {
	var word strings.Builder
	depth := 0

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for _, r := range arg {
		switch {
		case r == '(' && (depth > 0 || strings.HasSuffix(word.String(), "$")):
			depth++
		case r == ')' && depth > 0:
			depth--
		case unicode.IsSpace(r) && depth == 0:
			flush()
			continue
		}
		word.WriteRune(r)
	}

	if depth != 0 {
		err = ErrParenUnmatch
		return
	}

	flush()
	return
}

// valueOf returns the integer value of an argument word. Plain integers
// take any Go base prefix (0x, 0o, 0b, or a leading 0 for octal); $(...)
// words are evaluated as expressions.
func (con *Console) valueOf(word string) (value int64, err error) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		value, err = con.parenEval(word[2 : len(word)-1])
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parseArgs parses exactly count integer arguments.
func (con *Console) parseArgs(arg string, count int) (values []int64, err error) {
	words, err := splitWords(arg)
	if err != nil {
		return
	}

	if len(words) != count {
		err = ErrArgCount
		return
	}

	for _, word := range words {
		var value int64
		value, err = con.valueOf(word)
		if err != nil {
			return
		}
		values = append(values, value)
	}

	return
}

// parenEval evaluates a $(...) expression, with the emulator defines
// as predeclared integers.
func (con *Console) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "console"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range con.Emulator.Defines() {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}
