// Package tables loads the two read-only lookup tables the symbol codec
// depends on: the blissary-ID map, normally fetched from the upstream
// mapping repository, and the symbol-metadata table shipped with the
// client. Both are loaded once at startup; a failure is fatal to startup
// and is not retried.
package tables

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
)

// DefaultBlissaryMapURL is the upstream location of the blissary-ID map.
const DefaultBlissaryMapURL = "https://raw.githubusercontent.com/hlridge/Bliss-Blissary-BCI-ID-Map/main/blissary_to_bci_mapping.json"

// Sentinel errors for table loading.
var (
	// ErrNoSource indicates neither a URL nor a file was configured for a table.
	ErrNoSource = errors.New("no table source configured")
	// ErrFetch indicates the remote table could not be retrieved.
	ErrFetch = errors.New("fetch failed")
	// ErrDecode indicates a table was retrieved but is not valid JSON of the
	// expected shape.
	ErrDecode = errors.New("decode failed")
)

// Source says where each table comes from. A non-empty BlissaryMapFile takes
// precedence over BlissaryMapURL. Files ending in ".gz" are decompressed.
type Source struct {
	BlissaryMapURL  string
	BlissaryMapFile string
	SymbolsFile     string
	// Timeout bounds the whole load. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Tables holds both loaded tables.
type Tables struct {
	BlissaryMap bliss.BlissaryMap
	Symbols     bliss.SymbolTable
}

// Codec builds a bliss.Codec over the loaded tables.
func (t *Tables) Codec(opts ...bliss.Option) *bliss.Codec {
	return bliss.NewCodec(t.BlissaryMap, t.Symbols, opts...)
}

// Load reads both tables concurrently. A nil client uses
// http.DefaultClient.
func Load(ctx context.Context, src Source, client *http.Client) (*Tables, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if src.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, src.Timeout)
		defer cancel()
	}

	var t Tables
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := loadBlissaryMap(gctx, src, client)
		if err != nil {
			return err
		}
		t.BlissaryMap = m
		return nil
	})
	g.Go(func() error {
		if src.SymbolsFile == "" {
			return fmt.Errorf("tables: symbols: %w", ErrNoSource)
		}
		s, err := LoadSymbolsFile(src.SymbolsFile)
		if err != nil {
			return err
		}
		t.Symbols = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &t, nil
}

func loadBlissaryMap(ctx context.Context, src Source, client *http.Client) (bliss.BlissaryMap, error) {
	var m bliss.BlissaryMap
	switch {
	case src.BlissaryMapFile != "":
		data, err := readFile(src.BlissaryMapFile)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("tables: %s: %w: %v", src.BlissaryMapFile, ErrDecode, err)
		}
	case src.BlissaryMapURL != "":
		data, err := fetch(ctx, client, src.BlissaryMapURL)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("tables: %s: %w: %v", src.BlissaryMapURL, ErrDecode, err)
		}
	default:
		return nil, fmt.Errorf("tables: blissary map: %w", ErrNoSource)
	}
	return m, nil
}

// LoadSymbolsFile reads a symbol-metadata table. The file may be a JSON
// object keyed by BCI-AV-ID or a JSON array of records; record ids may be
// strings or numbers and compositions may be builder strings or arrays in
// the palette wire shape.
func LoadSymbolsFile(path string) (bliss.SymbolTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	t, err := decodeSymbols(data)
	if err != nil {
		return nil, fmt.Errorf("tables: %s: %w: %v", path, ErrDecode, err)
	}
	return t, nil
}

// rawSymbol accepts the looser shapes found in symbol files.
type rawSymbol struct {
	ID          json.RawMessage `json:"id"`
	Description string          `json:"description"`
	Composition json.RawMessage `json:"composition"`
}

func decodeSymbols(data []byte) (bliss.SymbolTable, error) {
	data = bytes.TrimSpace(data)
	var records []rawSymbol
	keyed := map[string]rawSymbol{}
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, err
	}

	t := make(bliss.SymbolTable, len(records)+len(keyed))
	add := func(key string, r rawSymbol) error {
		sym, err := r.normalize(key)
		if err != nil {
			return err
		}
		if sym.ID == "" {
			return fmt.Errorf("record without id")
		}
		t[sym.ID] = sym
		return nil
	}
	for _, r := range records {
		if err := add("", r); err != nil {
			return nil, err
		}
	}
	for key, r := range keyed {
		if err := add(key, r); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
	}
	return t, nil
}

func (r rawSymbol) normalize(key string) (bliss.Symbol, error) {
	sym := bliss.Symbol{ID: key, Description: r.Description}
	if len(r.ID) > 0 && string(r.ID) != "null" {
		var id any
		if err := json.Unmarshal(r.ID, &id); err != nil {
			return sym, err
		}
		switch v := id.(type) {
		case string:
			sym.ID = v
		case float64:
			n, err := bliss.FromValue(v)
			if err != nil {
				return sym, fmt.Errorf("id: %w", err)
			}
			sym.ID = n.String()
		default:
			return sym, fmt.Errorf("id has type %T", id)
		}
	}

	comp := bytes.TrimSpace(r.Composition)
	switch {
	case len(comp) == 0 || string(comp) == "null":
	case comp[0] == '"':
		if err := json.Unmarshal(comp, &sym.Composition); err != nil {
			return sym, err
		}
	case comp[0] == '[':
		var parts bliss.Composite
		if err := json.Unmarshal(comp, &parts); err != nil {
			return sym, fmt.Errorf("symbol %s composition: %w", sym.ID, err)
		}
		sym.Composition = parts.String()
	default:
		return sym, fmt.Errorf("symbol %s composition has unsupported shape", sym.ID)
	}
	return sym, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tables: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("tables: %s: %w: %v", path, ErrDecode, err)
		}
		defer zr.Close()
		r = zr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tables: read %s: %w", path, err)
	}
	return data, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("tables: %w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tables: %w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tables: %w: GET %s: %s", ErrFetch, url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tables: %w: reading %s: %v", ErrFetch, url, err)
	}
	return data, nil
}
