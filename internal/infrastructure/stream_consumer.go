package infrastructure

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// ProgressMarker is the substring that marks an in-progress transfer line
const ProgressMarker = "Downloading"

// maxLineSize bounds a single decoded line; longer output is drained and dropped
const maxLineSize = 1 << 20

// Lines returns a lazy sequence of the lines of r.
// Lines end at \n or \r (progress bars redraw with \r); invalid UTF-8 is replaced, never fatal.
func Lines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		scanner.Split(scanLinesOrCarriageReturns)
		for scanner.Scan() {
			if !yield(strings.ToValidUTF8(scanner.Text(), "\uFFFD")) {
				return
			}
		}
		if scanner.Err() != nil {
			// keep the writer unblocked
			io.Copy(io.Discard, r)
		}
	}
}

// scanLinesOrCarriageReturns is bufio.ScanLines that also splits on a bare \r
func scanLinesOrCarriageReturns(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		if data[i] == '\r' && i+1 == len(data) && !atEOF {
			// might be the first half of \r\n
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ClassifyProgress returns a progress event if line reports an in-progress transfer
func ClassifyProgress(line string) (domain.ProgressEvent, bool) {
	if strings.Contains(line, ProgressMarker) {
		return domain.ProgressEvent{Message: line}, true
	}
	return domain.ProgressEvent{}, false
}

// StreamConsumer drains one output stream of the tool and forwards progress lines
type StreamConsumer struct {
	stream  string // "stdout" or "stderr"
	emitter domain.EventEmitter
	onLine  func(stream, line string)
	logger  *zap.Logger
}

// NewStreamConsumer creates a consumer for the named stream.
// onLine, if set, sees every line (progress or not).
func NewStreamConsumer(stream string, emitter domain.EventEmitter, onLine func(stream, line string), logger *zap.Logger) *StreamConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamConsumer{
		stream:  stream,
		emitter: emitter,
		onLine:  onLine,
		logger:  logger,
	}
}

// Consume reads r until end of input and closes it.
// It is meant to run on its own goroutine and reports nothing back.
func (c *StreamConsumer) Consume(r io.ReadCloser) {
	defer r.Close()

	for line := range Lines(r) {
		if c.onLine != nil {
			c.onLine(c.stream, line)
		}
		event, ok := ClassifyProgress(line)
		if !ok || c.emitter == nil {
			continue
		}
		if err := c.emitter.Emit(domain.ProgressEventName, event); err != nil {
			c.logger.Debug("Failed to emit progress event",
				zap.String("stream", c.stream),
				zap.Error(err))
		}
	}
}
