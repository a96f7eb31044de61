// Package telemetry records what the palette tools do as a JSONL event
// stream: table loads, palette reloads, compositions served, and
// identifiers that missed the tables. One JSON object per line, so a run
// can be replayed or followed while it is written.
package telemetry

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Event kinds.
const (
	KindTablesLoaded    = "tables_loaded"
	KindPaletteLoaded   = "palette_loaded"
	KindPaletteReloaded = "palette_reloaded"
	KindComposition     = "composition"
	KindLookupMiss      = "lookup_miss"
	KindServerStart     = "server_start"
	KindServerStop      = "server_stop"

	// KindUnreadable marks a replayed line that was not a valid event. The
	// raw line is kept in Data.
	KindUnreadable = "unreadable"
)

// Event is one telemetry record. Palette, Symbol, and RequestID tie the event
// to what it was about; Data carries anything else.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Palette   string    `json:"palette,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	RequestID string    `json:"request,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// String renders the event on one line for terminals:
// "[15:04:05] kind palette=p symbol=s request=r key=value ...". Unreadable
// lines are shown raw behind "???".
func (e Event) String() string {
	if e.Kind == KindUnreadable {
		return fmt.Sprintf("??? %v", e.Data)
	}
	parts := []string{"[" + e.Timestamp.Format(time.TimeOnly) + "]", e.Kind}
	if e.Palette != "" {
		parts = append(parts, "palette="+e.Palette)
	}
	if e.Symbol != "" {
		parts = append(parts, "symbol="+e.Symbol)
	}
	if e.RequestID != "" {
		parts = append(parts, "request="+e.RequestID)
	}
	switch d := e.Data.(type) {
	case nil:
	case string:
		parts = append(parts, d)
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, d[k]))
		}
	default:
		data, _ := json.Marshal(d)
		parts = append(parts, string(data))
	}
	return strings.Join(parts, " ")
}

// Emitter writes events as JSONL. It is safe for concurrent use. A nil
// *Emitter discards everything.
type Emitter struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
	now func() time.Time
}

// New returns an Emitter writing to w. Close closes w if it is an
// io.Closer.
func New(w io.Writer) *Emitter {
	return &Emitter{w: w, enc: json.NewEncoder(w), now: time.Now}
}

// Open returns an Emitter appending to the file at path, creating it if
// needed.
func Open(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return New(f), nil
}

// Emit writes evt, stamping it with the current UTC time when it has none.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode %s event: %w", evt.Kind, err)
	}
	return nil
}

// Close closes the underlying writer when it can be closed.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.w.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// ParseLine decodes one JSONL line. A line that does not decode comes back
// as a KindUnreadable event holding the raw text.
func ParseLine(line []byte) Event {
	line = bytes.TrimSpace(line)
	var evt Event
	if err := json.Unmarshal(line, &evt); err != nil || evt.Kind == "" {
		return Event{Kind: KindUnreadable, Data: string(line)}
	}
	return evt
}

// Replay reads r to the end and calls fn for every non-blank line, in
// order.
func Replay(r io.Reader, fn func(Event)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		fn(ParseLine(sc.Bytes()))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("telemetry: replay: %w", err)
	}
	return nil
}
