package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
	"github.com/papapumpkin/adaptive-palette/internal/palette"
	"github.com/papapumpkin/adaptive-palette/internal/telemetry"
)

// maxBody bounds JSON request bodies.
const maxBody = 1 << 20

// errBadRequest marks request bodies that are not the expected JSON.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type symbolResponse struct {
	BciAvID     int    `json:"bciAvId"`
	BlissaryID  *int   `json:"blissaryId,omitempty"`
	Description string `json:"description,omitempty"`
	Composition string `json:"composition,omitempty"`
	Composite   bool   `json:"composite"`
}

type builderResponse struct {
	ID      string `json:"id"`
	Builder string `json:"builder"`
}

type parseRequest struct {
	Builder string `json:"builder"`
	Dialect string `json:"dialect"`
}

type parseResponse struct {
	Dialect   string          `json:"dialect"`
	Composite bliss.Composite `json:"composite"`
	BciAv     string          `json:"bciAv"`
}

type decomposeResponse struct {
	ID         string          `json:"id"`
	Parts      bliss.Composite `json:"parts"`
	Indicators []int           `json:"indicators"` // element positions
	Classifier int             `json:"classifier"`
}

type composeRequest struct {
	Home  string   `json:"home"`
	Cells []string `json:"cells"`
}

type composeResponse struct {
	Palette   string          `json:"palette"`
	StackSize int             `json:"stackSize"`
	Text      string          `json:"text"`
	Builder   string          `json:"builder"`
	Entries   []palette.Entry `json:"entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleSymbolIDs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ids":      s.deps.Codec.SymbolIDs(),
		"mappings": s.deps.Codec.MappingCount(),
	})
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	id, err := pathScalar(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sym, ok := s.deps.Codec.FindSymbol(id)
	if !ok {
		s.fail(w, r, &bliss.LookupError{Kind: "BCI-AV-ID", ID: int(id)})
		return
	}

	resp := symbolResponse{
		BciAvID:     int(id),
		Description: sym.Description,
		Composition: sym.Composition,
		Composite:   sym.IsComposite(),
	}
	if e, ok := s.deps.Codec.BlissaryID(int(id)); ok {
		resp.BlissaryID = &e.BlissaryID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleComposition(w http.ResponseWriter, r *http.Request) {
	id, err := pathScalar(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	comp, ok, err := s.deps.Codec.Composition(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		s.fail(w, r, &bliss.LookupError{Kind: "BCI-AV-ID", ID: int(id)})
		return
	}
	s.emit(telemetry.Event{Kind: telemetry.KindComposition, Symbol: id.String(), RequestID: RequestIDFrom(r.Context())})
	writeJSON(w, http.StatusOK, comp)
}

func (s *Server) handleBuilder(w http.ResponseWriter, r *http.Request) {
	id, err := s.deps.Codec.ParseID(r.URL.Query().Get("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	str, err := s.deps.Codec.BuilderString(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, builderResponse{ID: id.String(), Builder: str})
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	id, err := s.deps.Codec.ParseID(r.URL.Query().Get("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	decompose := s.deps.Codec.Decompose
	if expand, _ := strconv.ParseBool(r.URL.Query().Get("expand")); expand {
		decompose = s.deps.Codec.Expand
	}
	parts, ok, err := decompose(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		scalar, _ := id.(bliss.Scalar)
		s.fail(w, r, &bliss.LookupError{Kind: "BCI-AV-ID", ID: int(scalar)})
		return
	}
	writeJSON(w, http.StatusOK, decomposeResponse{
		ID:         id.String(),
		Parts:      parts,
		Indicators: nonNil(bliss.FindIndicators(parts)),
		Classifier: bliss.FindClassifierFromLeft(parts),
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := bliss.ParseDialect(req.Dialect)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.deps.Codec.ParseBuilder(req.Builder, d)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Dialect: d.String(), Composite: c, BciAv: c.String()})
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var req composeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	home := req.Home
	if home == "" {
		home = s.cfg.Home
	}

	sess, err := palette.NewSession(s.deps.Palettes, s.deps.Codec, home)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	for _, ref := range req.Cells {
		if _, err := sess.Activate(ref); err != nil {
			s.fail(w, r, fmt.Errorf("cell %s: %w", ref, err))
			return
		}
	}
	builder, err := sess.Encoding.Builder(s.deps.Codec)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, composeResponse{
		Palette:   sess.Nav.Current().Name,
		StackSize: sess.Nav.Size(),
		Text:      sess.Encoding.Text(),
		Builder:   builder,
		Entries:   sess.Encoding.Entries(),
	})
}

func (s *Server) handlePalettes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"palettes": s.deps.Palettes.Names()})
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Palettes.Named(r.PathValue("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// fail writes err as a JSON error with the status statusFor picks.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	reqID := RequestIDFrom(r.Context())

	var lookup *bliss.LookupError
	if errors.As(err, &lookup) {
		s.emit(telemetry.Event{
			Kind:      telemetry.KindLookupMiss,
			Symbol:    strconv.Itoa(lookup.ID),
			RequestID: reqID,
			Data:      map[string]string{"kind": lookup.Kind},
		})
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("request_id", reqID), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: reqID})
}

// statusFor maps domain errors onto HTTP status codes: missing things are
// 404, well-formed input the tables cannot expand is 422, the rest is 400.
// A palette file that fails validation is the server's fault.
func statusFor(err error) int {
	var verr *palette.ValidationError
	if errors.As(err, &verr) {
		return http.StatusInternalServerError
	}
	switch {
	case errors.Is(err, bliss.ErrUnknownID),
		errors.Is(err, palette.ErrNotFound),
		errors.Is(err, palette.ErrUnknownCell):
		return http.StatusNotFound
	case errors.Is(err, bliss.ErrCompositionCycle),
		errors.Is(err, bliss.ErrDepthExceeded),
		errors.Is(err, palette.ErrEmptyStack),
		errors.Is(err, palette.ErrEmptyEncoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, bliss.ErrInvalidID),
		errors.Is(err, bliss.ErrMalformedBuilder):
		return http.StatusBadRequest
	}
	return http.StatusBadRequest
}

func pathScalar(r *http.Request) (bliss.Scalar, error) {
	raw := r.PathValue("id")
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: id %q is not a BCI-AV-ID", bliss.ErrInvalidID, raw)
	}
	return bliss.Scalar(n), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
