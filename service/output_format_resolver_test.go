package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/prosim/domain"
)

func TestOutputFormatResolver_Determine(t *testing.T) {
	tests := []struct {
		name            string
		json, csv, yaml bool
		wantFormat      domain.OutputFormat
		wantExt         string
		wantErr         bool
	}{
		{name: "default text", wantFormat: domain.OutputFormatText, wantExt: "txt"},
		{name: "json", json: true, wantFormat: domain.OutputFormatJSON, wantExt: "json"},
		{name: "csv", csv: true, wantFormat: domain.OutputFormatCSV, wantExt: "csv"},
		{name: "yaml", yaml: true, wantFormat: domain.OutputFormatYAML, wantExt: "yaml"},
		{name: "conflict", json: true, yaml: true, wantErr: true},
	}

	r := NewOutputFormatResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ext, err := r.Determine(tt.json, tt.csv, tt.yaml)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestOutputFormatResolver_Parse(t *testing.T) {
	r := NewOutputFormatResolver()

	format, ext, err := r.Parse("YML")
	require.NoError(t, err)
	assert.Equal(t, domain.OutputFormatYAML, format)
	assert.Equal(t, "yaml", ext)

	format, _, err = r.Parse("")
	require.NoError(t, err)
	assert.Equal(t, domain.OutputFormatText, format)

	_, _, err = r.Parse("html")
	assert.Error(t, err)
}
