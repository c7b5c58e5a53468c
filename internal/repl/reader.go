package repl

import (
	"bufio"
	"errors"
	"io"
)

// DefaultLineCapacity is the command buffer size, trailing newline included.
const DefaultLineCapacity = 255

// bufio refuses smaller buffers.
const minLineCapacity = 16

// ErrLineTooLong is returned for a line that does not fit the command
// buffer. The rest of that line is discarded; it is never truncated and
// handed out as a shorter command.
var ErrLineTooLong = errors.New("line exceeds command buffer capacity")

// LineReader frames input into newline-terminated lines of bounded size.
type LineReader struct {
	reader   *bufio.Reader
	capacity int
}

// NewLineReader returns a LineReader accepting lines of at most capacity
// bytes including the newline. Capacities below 16 are raised to 16.
func NewLineReader(r io.Reader, capacity int) *LineReader {
	if capacity < minLineCapacity {
		capacity = minLineCapacity
	}
	return &LineReader{
		reader:   bufio.NewReaderSize(r, capacity),
		capacity: capacity,
	}
}

// Capacity returns the maximum line size including the newline.
func (lr *LineReader) Capacity() int {
	return lr.capacity
}

// ReadLine blocks for the next line and returns it without its newline.
// A final line lacking a newline is returned as-is. io.EOF is returned only
// once no bytes remain.
func (lr *LineReader) ReadLine() (string, error) {
	line, err := lr.reader.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		lr.discardLine()
		return "", ErrLineTooLong
	case errors.Is(err, io.EOF):
		if len(line) == 0 {
			return "", io.EOF
		}
		if len(line) > lr.capacity-1 {
			return "", ErrLineTooLong
		}
		return string(line), nil
	case err != nil:
		return "", err
	}

	// The underlying reader may be a larger bufio.Reader that NewReaderSize
	// reused as-is.
	if len(line) > lr.capacity {
		return "", ErrLineTooLong
	}

	return string(line[:len(line)-1]), nil
}

func (lr *LineReader) discardLine() {
	for {
		_, err := lr.reader.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return
		}
	}
}
