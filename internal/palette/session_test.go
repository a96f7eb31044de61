package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	store := NewStore("testdata", "")
	require.NoError(t, store.LoadFileMap())
	s, err := NewSession(store, testCodec(), "home")
	require.NoError(t, err)
	return s
}

func TestSession_ComposeSentence(t *testing.T) {
	t.Parallel()
	s := newTestSession(t)

	for _, ref := range []string{"tok-know", "ind-future", "br-people", "tok-conj", "back", "tok-not"} {
		_, err := s.Activate(ref)
		require.NoError(t, err, "activating %s", ref)
	}

	assert.Equal(t, "home", s.Nav.Current().Name)
	assert.True(t, s.Nav.Empty())
	assert.Equal(t, "know and not", s.Encoding.Text())

	got, err := s.Encoding.Builder(testCodec())
	require.NoError(t, err)
	assert.Equal(t, "B403;B87//B823//B474", got)
}

func TestSession_CommandBar(t *testing.T) {
	t.Parallel()
	s := newTestSession(t)

	_, err := s.Activate("tok-know")
	require.NoError(t, err)
	_, err = s.Activate("tok-not")
	require.NoError(t, err)

	cell, err := s.Activate("commands:del")
	require.NoError(t, err)
	assert.Equal(t, CellDelLastEncoding, cell.Type)
	assert.Equal(t, 1, s.Encoding.Len())
	assert.Equal(t, "home", s.Nav.Current().Name, "a command bar cell does not navigate")

	_, err = s.Activate("commands:enc")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Encoding.Len())

	_, err = s.Activate("commands:clear")
	require.NoError(t, err)
	assert.Zero(t, s.Encoding.Len())

	_, err = s.Activate("commands:del")
	assert.ErrorIs(t, err, ErrEmptyEncoding)
}

func TestSession_RemoveIndicator(t *testing.T) {
	t.Parallel()
	s := newTestSession(t)

	_, err := s.Activate("tok-know")
	require.NoError(t, err)
	_, err = s.Activate("ind-remove")
	require.NoError(t, err)

	assert.Equal(t, bliss.Composite{bliss.Sym(15162)}, s.Encoding.Entries()[0].BciAvID)
}

func TestSession_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		refs []string
		want error
	}{
		{name: "unknown cell", refs: []string{"nope"}, want: ErrUnknownCell},
		{name: "unknown palette", refs: []string{"nowhere:cell"}, want: ErrNotFound},
		{name: "go back at home", refs: []string{"people:back"}, want: ErrEmptyStack},
		{name: "indicator on empty sentence", refs: []string{"ind-future"}, want: ErrEmptyEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSession(t)
			var err error
			for _, ref := range tt.refs {
				if _, err = s.Activate(ref); err != nil {
					break
				}
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewSession_UnknownHome(t *testing.T) {
	t.Parallel()
	store := NewStore("testdata", "")
	require.NoError(t, store.LoadFileMap())

	_, err := NewSession(store, testCodec(), "attic")
	assert.ErrorIs(t, err, ErrNotFound)
}
