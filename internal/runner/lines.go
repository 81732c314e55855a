package runner

import (
	"bufio"
	"io"
)

// lineReader splits a stream into lines of at most max bytes. Longer
// physical lines are cut to max-1 bytes plus a newline; the rest of the
// physical line is dropped rather than returned as a separate line.
// Every byte read, truncated or not, is copied to tee as it arrives;
// failed tee writes are counted and otherwise ignored.
type lineReader struct {
	r         *bufio.Reader
	max       int
	tee       io.Writer // may be nil
	truncated int
	teeFailed int
}

func newLineReader(r io.Reader, max int, tee io.Writer) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 4096), max: max, tee: tee}
}

// Next returns the next line. The final line may lack a newline. At end
// of stream it returns io.EOF with no line.
func (lr *lineReader) Next() ([]byte, error) {
	var (
		line []byte
		n    int // length of the physical line
	)
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(chunk) > 0 {
			if lr.tee != nil {
				if _, err := lr.tee.Write(chunk); err != nil {
					lr.teeFailed++
				}
			}
			if room := lr.max - len(line); room > 0 {
				line = append(line, chunk[:min(room, len(chunk))]...)
			}
			n += len(chunk)
		}
		switch err {
		case nil:
			return lr.finish(line, n), nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if n == 0 {
				return nil, io.EOF
			}
			return lr.finish(line, n), nil
		default:
			if n > 0 {
				return lr.finish(line, n), nil
			}
			return nil, err
		}
	}
}

func (lr *lineReader) finish(line []byte, n int) []byte {
	if n <= lr.max {
		return line
	}
	lr.truncated++
	return append(line[:lr.max-1], '\n')
}
