// Package client embeds the browser runtime served at /_live/livesite.js.
package client

import (
	"embed"
	"io/fs"
)

// ScriptName is the file name of the live client.
const ScriptName = "livesite.js"

//go:embed src/*.js
var assets embed.FS

// Assets returns the embedded client files.
func Assets() fs.FS {
	fsys, err := fs.Sub(assets, "src")
	if err != nil {
		panic(err)
	}
	return fsys
}

// Script returns the live client source.
func Script() []byte {
	data, err := assets.ReadFile("src/" + ScriptName)
	if err != nil {
		panic(err)
	}
	return data
}

// FileNames returns the names of all embedded files.
func FileNames() []string {
	entries, err := assets.ReadDir("src")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}
