package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

var liveRefs = []struct{ from, to []byte }{
	{[]byte(`"/` + LiveDir + `/`), []byte(`"./` + LiveDir + `/`)},
	{[]byte(`'/` + LiveDir + `/`), []byte(`'./` + LiveDir + `/`)},
}

// FixPaths rewrites absolute paths under dir to relative ones and returns
// the number of files changed. In .html files, src and href attributes that
// start with a single "/" become "./"; in .html, .js and .css files, quoted
// "/_live/" prefixes become "./_live/".
func FixPaths(dir string, logger logging.Logger) (int, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("fixpaths: %w", err)
	}

	fixed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".html" && ext != ".js" && ext != ".css" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		out := data
		if ext == ".html" {
			if out, err = rewriteAttrs(out); err != nil {
				return fmt.Errorf("rewrite %s: %w", path, err)
			}
		}
		for _, r := range liveRefs {
			out = bytes.ReplaceAll(out, r.from, r.to)
		}

		if bytes.Equal(out, data) {
			return nil
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return err
		}

		rel, _ := filepath.Rel(dir, path)
		logger.Debug("fixed paths", logging.String("file", rel))
		fixed++
		return nil
	})
	if err != nil {
		return fixed, fmt.Errorf("fixpaths: %w", err)
	}
	return fixed, nil
}

// RelativePath returns "./"+p for a root-relative p. Protocol-relative
// paths ("//host") and other values are returned unchanged.
func RelativePath(p string) (string, bool) {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return p, false
	}
	return "." + p, true
}

// rewriteAttrs re-emits an HTML document token by token. Only tags with a
// rewritten attribute are re-serialized; everything else is copied raw.
func rewriteAttrs(doc []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(doc))

	z := html.NewTokenizer(bytes.NewReader(doc))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return out.Bytes(), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := append([]byte(nil), z.Raw()...)
			tok := z.Token()

			changed := false
			for i, a := range tok.Attr {
				if a.Namespace != "" || (a.Key != "src" && a.Key != "href") {
					continue
				}
				if v, ok := RelativePath(a.Val); ok {
					tok.Attr[i].Val = v
					changed = true
				}
			}

			if changed {
				out.WriteString(tok.String())
			} else {
				out.Write(raw)
			}

		default:
			out.Write(z.Raw())
		}
	}
}
