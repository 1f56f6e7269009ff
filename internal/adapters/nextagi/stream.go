package nextagi

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/ClareAI/astra-voice-bridge/internal/domain"
	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"go.uber.org/zap"
)

const dataPrefix = "data: "

// Decoder incrementally decodes a text/event-stream body into StreamEvents.
// It reads line by line, so a data line split across chunk boundaries is
// reassembled before parsing. Lines without the data prefix (comments,
// pings, blank keep-alives) are ignored; data lines with malformed JSON are
// logged and skipped without aborting the stream.
type Decoder struct {
	reader  *bufio.Reader
	skipped int
}

// NewDecoder wraps a raw event-stream body.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReader(r)}
}

// Next returns the next decoded event, or io.EOF at end of stream.
func (d *Decoder) Next() (domain.StreamEvent, error) {
	for {
		line, err := d.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return domain.StreamEvent{}, err
		}
		atEOF := err == io.EOF

		if event, ok := d.decodeLine(line); ok {
			return event, nil
		}
		if atEOF {
			return domain.StreamEvent{}, io.EOF
		}
	}
}

// SkippedLines reports how many malformed data lines were dropped.
func (d *Decoder) SkippedLines() int {
	return d.skipped
}

func (d *Decoder) decodeLine(line string) (domain.StreamEvent, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, dataPrefix) {
		return domain.StreamEvent{}, false
	}

	var event domain.StreamEvent
	if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &event); err != nil {
		d.skipped++
		logger.Base().Error("skipping malformed stream event",
			zap.Error(err),
			zap.String("line", line))
		return domain.StreamEvent{}, false
	}
	return event, true
}
