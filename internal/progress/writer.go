package progress

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// transferRe matches the object counters git reports over the sideband.
// Servers phrase them as "Counting objects: n% (a/b)" or "Compressing
// objects: n% (a/b)"; a local client synthesizes "Receiving objects" the
// same way. All three carry the received/total pair the ratio needs.
var transferRe = regexp.MustCompile(`(?i)(?:receiving|counting|compressing) objects:\s*\d+%\s*\((\d+)/(\d+)\)`)

// SidebandWriter adapts a Sink to the io.Writer that go-git expects for its
// Progress option. The sideband stream mixes free-form server text with
// transfer counter updates; counter lines become fractional events, all
// other non-empty lines are forwarded verbatim with no ratio.
//
// Lines may arrive split across writes and are terminated by either LF or CR
// (git rewrites in-place percentage updates with bare CRs).
type SidebandWriter struct {
	sink Sink
	buf  bytes.Buffer
}

func NewSidebandWriter(sink Sink) *SidebandWriter {
	if sink == nil {
		sink = NopSink{}
	}
	return &SidebandWriter{sink: sink}
}

func (w *SidebandWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		data := w.buf.Bytes()
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			break
		}
		line := string(data[:i])
		w.buf.Next(i + 1)
		w.emit(line)
	}
	return len(p), nil
}

// Flush emits any trailing partial line. Call once the transfer is done.
func (w *SidebandWriter) Flush() {
	if w.buf.Len() == 0 {
		return
	}
	line := w.buf.String()
	w.buf.Reset()
	w.emit(line)
}

func (w *SidebandWriter) emit(line string) {
	trimmed := bytes.TrimSpace([]byte(line))
	if len(trimmed) == 0 {
		return
	}
	if m := transferRe.FindSubmatch(trimmed); m != nil {
		received, _ := strconv.Atoi(string(m[1]))
		total, _ := strconv.Atoi(string(m[2]))
		w.sink.Push(TransferEvent(received, total))
		return
	}
	w.sink.Push(Text(string(trimmed)))
}

// TransferEvent translates raw object counters into a progress event. The
// ratio is omitted when total is zero, so a degenerate transfer never
// divides by zero.
func TransferEvent(received, total int) Event {
	msg := fmt.Sprintf("received %d of %d objects", received, total)
	if total == 0 {
		return Text(msg)
	}
	return Fractional(msg, float64(received)/float64(total))
}
