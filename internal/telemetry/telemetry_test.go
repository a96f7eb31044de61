package telemetry

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEmitter_StampsAndEncodes(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	em := New(&buf)
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	em.now = func() time.Time { return fixed }

	if err := em.Emit(Event{Kind: KindComposition, Symbol: "15161", RequestID: "r1"}); err != nil {
		t.Fatal(err)
	}
	kept := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := em.Emit(Event{Timestamp: kept, Kind: KindPaletteLoaded, Palette: "home"}); err != nil {
		t.Fatal(err)
	}

	var got []Event
	if err := Replay(&buf, func(e Event) { got = append(got, e) }); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("replayed %d events, want 2", len(got))
	}
	if !got[0].Timestamp.Equal(fixed) || got[0].Timestamp.Location() != time.UTC {
		t.Errorf("stamped time = %v, want %v in UTC", got[0].Timestamp, fixed.UTC())
	}
	if got[0].Symbol != "15161" || got[0].RequestID != "r1" {
		t.Errorf("first event = %+v", got[0])
	}
	if !got[1].Timestamp.Equal(kept) || got[1].Palette != "home" {
		t.Errorf("second event = %+v, want its own timestamp kept", got[1])
	}
}

func TestOpen_AppendsAcrossEmitters(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "events.jsonl")

	for _, kind := range []string{KindServerStart, KindServerStop} {
		em, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if err := em.Emit(Event{Kind: kind}); err != nil {
			t.Fatal(err)
		}
		if err := em.Close(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var kinds []string
	if err := Replay(bytes.NewReader(data), func(e Event) { kinds = append(kinds, e.Kind) }); err != nil {
		t.Fatal(err)
	}
	if strings.Join(kinds, ",") != "server_start,server_stop" {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestOpen_BadPath(t *testing.T) {
	t.Parallel()
	_, err := Open(filepath.Join(t.TempDir(), "missing", "events.jsonl"))
	if err == nil || !strings.Contains(err.Error(), "telemetry: open") {
		t.Fatalf("Open err = %v, want wrapped open error", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open err = %v, want os.ErrNotExist underneath", err)
	}
}

func TestEmitter_Concurrent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	em := New(&buf)

	const n = 100
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := em.Emit(Event{Kind: KindLookupMiss, Data: map[string]int{"i": i}}); err != nil {
				t.Errorf("Emit: %v", err)
			}
		}()
	}
	wg.Wait()

	count := 0
	err := Replay(&buf, func(e Event) {
		count++
		if e.Kind != KindLookupMiss {
			t.Errorf("interleaved write produced %+v", e)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != n {
		t.Errorf("replayed %d events, want %d", count, n)
	}
}

func TestNilEmitter(t *testing.T) {
	t.Parallel()
	var em *Emitter
	if err := em.Emit(Event{Kind: KindServerStart}); err != nil {
		t.Errorf("nil Emit: %v", err)
	}
	if err := em.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestClose_NonCloserWriter(t *testing.T) {
	t.Parallel()
	if err := New(&bytes.Buffer{}).Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestReplay_SkipsBlankAndKeepsUnreadable(t *testing.T) {
	t.Parallel()
	in := "{\"ts\":\"2026-03-01T09:30:00Z\",\"kind\":\"tables_loaded\"}\n\n   \nnot json\n{\"ts\":\"2026-03-01T09:30:00Z\"}\n"

	var got []Event
	if err := Replay(strings.NewReader(in), func(e Event) { got = append(got, e) }); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("replayed %d events, want 3: %+v", len(got), got)
	}
	if got[0].Kind != KindTablesLoaded {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Kind != KindUnreadable || got[1].Data != "not json" {
		t.Errorf("got[1] = %+v, want unreadable raw line", got[1])
	}
	if got[2].Kind != KindUnreadable {
		t.Errorf("event without a kind should be unreadable, got %+v", got[2])
	}
}

func TestEventString(t *testing.T) {
	t.Parallel()
	ts := time.Date(2026, 3, 1, 9, 30, 5, 0, time.UTC)

	tests := []struct {
		name string
		evt  Event
		want string
	}{
		{
			name: "kind only",
			evt:  Event{Timestamp: ts, Kind: KindServerStop},
			want: "[09:30:05] server_stop",
		},
		{
			name: "identifiers",
			evt:  Event{Timestamp: ts, Kind: KindComposition, Palette: "home", Symbol: "15161", RequestID: "r1"},
			want: "[09:30:05] composition palette=home symbol=15161 request=r1",
		},
		{
			name: "decoded data map sorted by key",
			evt:  Event{Timestamp: ts, Kind: KindTablesLoaded, Data: map[string]any{"symbols": 7, "mappings": 8}},
			want: "[09:30:05] tables_loaded mappings=8 symbols=7",
		},
		{
			name: "typed data as JSON",
			evt:  Event{Timestamp: ts, Kind: KindServerStart, Data: map[string]string{"addr": ":3000"}},
			want: `[09:30:05] server_start {"addr":":3000"}`,
		},
		{
			name: "unreadable",
			evt:  Event{Kind: KindUnreadable, Data: "garbage"},
			want: "??? garbage",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.evt.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
