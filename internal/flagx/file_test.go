package flagx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string          `json:"name" yaml:"name" toml:"name"`
	Interval *timex.Duration `json:"interval" yaml:"interval" toml:"interval"`
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"c.json": `{"name":"pat","interval":"30m"}`,
		"c.yaml": "name: pat\ninterval: 30m\n",
		"c.yml":  "name: pat\ninterval: 30m\n",
		"c.toml": "name = \"pat\"\ninterval = \"30m\"\n",
	}

	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			var got sample
			require.NoError(t, DecodeFile(path, &got))
			assert.Equal(t, "pat", got.Name)
			require.NotNil(t, got.Interval)
			assert.Equal(t, 30*time.Minute, got.Interval.Duration)
		})
	}
}

func TestDecodeFile_Errors(t *testing.T) {
	dir := t.TempDir()

	var out sample
	require.Error(t, DecodeFile(filepath.Join(dir, "missing.json"), &out))

	ini := filepath.Join(dir, "c.ini")
	require.NoError(t, os.WriteFile(ini, []byte("name=pat"), 0o600))
	require.ErrorContains(t, DecodeFile(ini, &out), "unsupported format")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{ nope"), 0o600))
	require.ErrorContains(t, DecodeFile(bad, &out), bad)
}
