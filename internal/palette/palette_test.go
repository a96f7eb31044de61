package palette

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/adaptive-palette/internal/bliss"
)

func TestGridStyle(t *testing.T) {
	t.Parallel()
	l := Layout{ColumnStart: 2, ColumnSpan: 1, RowStart: 3, RowSpan: 2}
	assert.Equal(t, "grid-column: 2 / span 1;grid-row: 3 / span 2;", l.GridStyle())
}

func TestLoadFile_JSON(t *testing.T) {
	t.Parallel()
	p, err := LoadFile("testdata/home.json")
	require.NoError(t, err)

	assert.Equal(t, "home", p.Name)
	assert.Equal(t, []string{"br-people", "ind-future", "ind-remove", "tok-know", "tok-not", "tok-revive"}, p.CellIDs())

	id, err := p.Cells["tok-know"].Options.ID()
	require.NoError(t, err)
	assert.Equal(t, bliss.Scalar(15161), id)

	id, err = p.Cells["tok-revive"].Options.ID()
	require.NoError(t, err)
	assert.Equal(t, "13134;8993/K:-2/15732/15666", id.String())

	assert.Equal(t, "people", p.Cells["br-people"].Options.BranchTo)
	assert.Equal(t, 2, p.Cells["br-people"].Options.ColumnSpan)
}

func TestLoadFile_TOML(t *testing.T) {
	t.Parallel()
	p, err := LoadFile("testdata/people.toml")
	require.NoError(t, err)

	assert.Equal(t, "people", p.Name)
	cell := p.Cells["tok-conj"]
	assert.Equal(t, CellBmwCode, cell.Type)
	assert.Equal(t, "and", cell.Options.Label)
	assert.Equal(t, "grid-column: 1 / span 1;grid-row: 1 / span 1;", cell.Options.GridStyle())

	id, err := cell.Options.ID()
	require.NoError(t, err)
	assert.Equal(t, bliss.Scalar(23409), id)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		format string
		want   error
		field  string
	}{
		{
			name:   "unsupported format",
			data:   `name: x`,
			format: ".yaml",
			want:   ErrUnsupportedFormat,
		},
		{
			name:   "missing name",
			data:   `{"cells": {}}`,
			format: ".json",
			want:   ErrMissingField,
			field:  "name",
		},
		{
			name:   "unknown cell type",
			data:   `{"name": "p", "cells": {"a": {"type": "Sparkle", "options": {}}}}`,
			format: ".json",
			want:   ErrUnknownCellType,
			field:  "type",
		},
		{
			name:   "code cell without id",
			data:   `{"name": "p", "cells": {"a": {"type": "ActionBmwCodeCell", "options": {"label": "x"}}}}`,
			format: ".json",
			want:   ErrMissingField,
			field:  "bciAvId",
		},
		{
			name:   "code cell with bad id",
			data:   `{"name": "p", "cells": {"a": {"type": "ActionBmwCodeCell", "options": {"bciAvId": 1.5}}}}`,
			format: ".json",
			want:   bliss.ErrInvalidID,
			field:  "bciAvId",
		},
		{
			name:   "branch without target",
			data:   "name = \"p\"\n[cells.a]\ntype = \"ActionBranchToPaletteCell\"\n[cells.a.options]\nlabel = \"go\"\n",
			format: ".toml",
			want:   ErrMissingField,
			field:  "branchTo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			if tt.field != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "want *ValidationError, got %T", err)
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	t.Parallel()
	_, err := Decode([]byte(`{"name":`), ".json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing JSON")
}
