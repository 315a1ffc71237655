// Package assets produces minified copies of the stylesheets and scripts
// served under /static.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`(?m)//.*$`)
	whitespace   = regexp.MustCompile(`\s+`)
	cssPunct     = regexp.MustCompile(`\s*([{}:;,>+~])\s*`)
	jsPunct      = regexp.MustCompile(`\s*([{}()\[\];,=+\-*/])\s*`)
)

// MinifyCSS strips comments and collapses whitespace around CSS punctuation
func MinifyCSS(css string) string {
	css = blockComment.ReplaceAllString(css, "")
	css = whitespace.ReplaceAllString(css, " ")
	css = cssPunct.ReplaceAllString(css, "$1")
	css = strings.ReplaceAll(css, ";}", "}")
	return strings.TrimSpace(css)
}

// MinifyJS strips comments and collapses whitespace around operators.
// It is a lexical pass: "//" inside string literals such as URLs is treated
// as a comment, so scripts must keep those out of line ends.
func MinifyJS(js string) string {
	js = lineComment.ReplaceAllString(js, "")
	js = blockComment.ReplaceAllString(js, "")
	js = whitespace.ReplaceAllString(js, " ")
	js = jsPunct.ReplaceAllString(js, "$1")
	return strings.TrimSpace(js)
}

// MinifiedName returns the .min variant of a .css or .js path, or name
// unchanged for anything else.
func MinifiedName(name string) string {
	ext := filepath.Ext(name)
	if ext != ".css" && ext != ".js" {
		return name
	}
	base := strings.TrimSuffix(name, ext)
	if strings.HasSuffix(base, ".min") {
		return name
	}
	return base + ".min" + ext
}

// Result describes one file written by OptimizeDir
type Result struct {
	Source string
	Target string
	Before int
	After  int
}

// OptimizeDir writes a minified copy next to every .css and .js file under
// dir, skipping files that are already minified.
func OptimizeDir(dir string, logger zerolog.Logger) ([]Result, error) {
	var results []Result

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		var minify func(string) string
		switch filepath.Ext(path) {
		case ".css":
			minify = MinifyCSS
		case ".js":
			minify = MinifyJS
		default:
			return nil
		}

		target := MinifiedName(path)
		if target == path {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		minified := minify(string(content))
		if err := os.WriteFile(target, []byte(minified), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}

		logger.Debug().
			Str("source", path).
			Str("target", target).
			Int("before", len(content)).
			Int("after", len(minified)).
			Msg("Minified asset")

		results = append(results, Result{
			Source: path,
			Target: target,
			Before: len(content),
			After:  len(minified),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}
