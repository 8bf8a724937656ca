// Package lines streams text without holding more than one bounded line in memory.
package lines

import (
	"bufio"
	"errors"
	"io"
	"iter"

	"github.com/m-mizutani/goerr/v2"
)

// MaxLineSize caps the bytes kept for one line. The remainder of a longer line is consumed
// and dropped.
const MaxLineSize = 64 << 20

const readBufferSize = 64 << 10

// All yields every line of r without its line terminator. The yielded slice is only valid
// until the next iteration. A read error is yielded once and ends the sequence.
func All(r io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		br := bufio.NewReaderSize(r, readBufferSize)
		var buf []byte

		for {
			buf = buf[:0]
			truncated := false
			var err error

			for {
				var chunk []byte
				var isPrefix bool
				chunk, isPrefix, err = br.ReadLine()
				if err != nil {
					break
				}
				if !truncated {
					room := MaxLineSize - len(buf)
					if len(chunk) > room {
						chunk = chunk[:room]
						truncated = true
					}
					buf = append(buf, chunk...)
				}
				if !isPrefix {
					break
				}
			}

			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				yield(nil, goerr.Wrap(err, "failed to read line"))
				return
			}

			if !yield(buf, nil) {
				return
			}
		}
	}
}

// Matching decodes r rune by rune and yields the 1-based number of every line holding at
// least one rune accepted by match. Memory use does not depend on line length.
func Matching(r io.Reader, match func(rune) bool) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		br := bufio.NewReaderSize(r, readBufferSize)
		line := 1
		matched := false

		for {
			c, _, err := br.ReadRune()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(0, goerr.Wrap(err, "failed to read rune", goerr.V("line", line)))
					return
				}
				if matched {
					yield(line, nil)
				}
				return
			}

			switch {
			case c == '\n':
				if matched && !yield(line, nil) {
					return
				}
				line++
				matched = false
			case !matched && match(c):
				matched = true
			}
		}
	}
}
