package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/maisem/aoc2021"
)

// ParseError reports a malformed line of scanner input.
type ParseError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNoBeacons = errors.New("scanner reports no beacons")

// Parse reads scanner reports from r. See ParseLines.
func Parse(r io.Reader) ([]Cloud, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return ParseLines(lines)
}

// ParseLines parses scanner reports, one cloud per report. A report is a
// header line such as "--- scanner 0 ---" followed by one "x,y,z" line per
// beacon, and ends at a blank line or the end of input. The header's
// content is not interpreted.
func ParseLines(lines []string) ([]Cloud, error) {
	var (
		clouds []Cloud
		cur    []Vec
		open   bool // inside a report
		header int  // line number of the open report's header
		hdrTxt string
	)
	closeReport := func() error {
		if !open {
			return nil
		}
		if len(cur) == 0 {
			return &ParseError{Line: header, Text: hdrTxt, Err: errNoBeacons}
		}
		clouds = append(clouds, NewCloud(cur...))
		cur, open = nil, false
		return nil
	}
	for i, line := range lines {
		n := i + 1
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.TrimSpace(line) == "":
			if err := closeReport(); err != nil {
				return nil, err
			}
		case !open:
			// The header only marks the start of a report.
			open, header, hdrTxt = true, n, line
		default:
			p, err := aoc.ParsePt3(line)
			if err != nil {
				return nil, &ParseError{Line: n, Text: line, Err: err}
			}
			cur = append(cur, p)
		}
	}
	if err := closeReport(); err != nil {
		return nil, err
	}
	return clouds, nil
}
