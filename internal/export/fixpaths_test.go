package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/", "./", true},
		{"/about", "./about", true},
		{"/_live/livesite.js", "./_live/livesite.js", true},
		{"//cdn.example.com/x.js", "//cdn.example.com/x.js", false},
		{"https://example.com/", "https://example.com/", false},
		{"#pricing", "#pricing", false},
		{"about", "about", false},
	}
	for _, tt := range tests {
		got, ok := RelativePath(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestFixPaths(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"index.html": `<!DOCTYPE html>
<html><head><link rel="icon" href="/favicon.ico"><script src="/_live/livesite.js" defer></script></head>
<body><a href="/about" data-href="/about">About</a> <a href="https://x.com/">X</a> <img src="//cdn.example.com/a.png"></body></html>`,
		"about/index.html": `<p>no links</p>`,
		"_live/app.js":     `var a = "/_live/ws"; var b = '/_live/x';`,
		"style.css":        `body { background: url("/_live/bg.png"); }`,
		"notes.txt":        `href="/about"`,
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	n, err := FixPaths(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	index := read(t, filepath.Join(dir, "index.html"))
	assert.Contains(t, index, `<!DOCTYPE html>`)
	assert.Contains(t, index, `href="./favicon.ico"`)
	assert.Contains(t, index, `src="./_live/livesite.js"`)
	assert.Contains(t, index, `href="./about"`)
	assert.Contains(t, index, `data-href="/about"`)
	assert.Contains(t, index, `href="https://x.com/"`)
	assert.Contains(t, index, `src="//cdn.example.com/a.png"`)

	assert.Equal(t, `var a = "./_live/ws"; var b = './_live/x';`, read(t, filepath.Join(dir, "_live", "app.js")))
	assert.Equal(t, `body { background: url("./_live/bg.png"); }`, read(t, filepath.Join(dir, "style.css")))
	assert.Equal(t, `href="/about"`, read(t, filepath.Join(dir, "notes.txt")))

	n, err = FixPaths(dir, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFixPaths_MissingDir(t *testing.T) {
	_, err := FixPaths(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
