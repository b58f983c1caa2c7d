package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		want    Config
		wantErr bool
	}{
		{
			name:    "empty file",
			content: "",
			want:    Default(),
		},
		{
			name: "all options",
			content: `name: streusle
case_sensitive: true
color: true
json: false
aliases:
  pos: upos
  role: ss
`,
			want: Config{
				Name:          "streusle",
				CaseSensitive: true,
				Color:         true,
				Aliases:       map[string]string{"pos": "upos", "role": "ss"},
			},
		},
		{
			name:    "unknown key",
			content: "case_insensitive: true\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "aliases: [unclosed\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), DefaultPath)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), DefaultPath)
	want := Config{Name: "tquery", JSON: true, Aliases: map[string]string{"pos": "upos"}}

	require.NoError(t, Write(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
