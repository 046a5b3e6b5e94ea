package normalize

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	perr "liverkpi/internal/platform/errors"
)

// rowReader yields one physical line at a time; exports never break a
// record across lines
type rowReader struct {
	br   *bufio.Reader
	line int
}

func newRowReader(r io.Reader) *rowReader {
	return &rowReader{br: bufio.NewReader(r)}
}

// next returns the next non-empty line without its terminator, io.EOF at the
// end, and an Unavailable error when the underlying stream fails
func (rr *rowReader) next() (string, error) {
	for {
		s, err := rr.br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "read line %d", rr.line+1)
		}
		if s == "" {
			return "", io.EOF
		}
		rr.line++
		if s = strings.TrimRight(s, "\r\n"); s != "" {
			return s, nil
		}
		if err != nil {
			return "", io.EOF
		}
	}
}

// header reads and parses the first line
func (rr *rowReader) header() ([]string, error) {
	s, err := rr.next()
	if err != nil {
		return nil, err
	}
	cuts, open := fieldCuts(s)
	if open {
		return nil, perr.Malformedf("line %d: unterminated quoted field", rr.line)
	}
	return parseLine(s, len(cuts)+1, rr.line)
}

// row reads the next data line, drops its phantom field and parses it
func (rr *rowReader) row(width int) ([]string, error) {
	s, err := rr.next()
	if err != nil {
		return nil, err
	}
	s, err = TrimTrailingField(s, width)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "line %d", rr.line)
	}
	return parseLine(s, width, rr.line)
}

// fieldCuts returns the offsets of the delimiters outside quotes and whether
// the line ends inside a quoted field. Quote handling follows csv.Reader with
// LazyQuotes: a quote opens a field only at its start, "" is an escaped
// quote, and a quote not followed by a delimiter or the line end is literal.
func fieldCuts(s string) (cuts []int, open bool) {
	inQuote, fieldStart := false, true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c != '"' {
				break
			}
			switch {
			case i+1 < len(s) && s[i+1] == '"':
				i++
			case i+1 == len(s) || s[i+1] == ',':
				inQuote = false
			}
		case c == '"' && fieldStart:
			inQuote = true
		case c == ',':
			cuts = append(cuts, i)
			fieldStart = true
			continue
		}
		fieldStart = false
	}
	return cuts, inQuote
}

// parseLine unquotes one line that fieldCuts already split into want fields
func parseLine(s string, want, line int) ([]string, error) {
	if s == "" && want == 1 {
		return []string{""}, nil
	}
	cr := csv.NewReader(strings.NewReader(s))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rec, err := cr.Read()
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "line %d", line)
	}
	if len(rec) != want {
		return nil, perr.Wrapf(fmt.Errorf("parsed %d fields, expected %d", len(rec), want), perr.ErrorCodeMalformed, "line %d", line)
	}
	return rec, nil
}
