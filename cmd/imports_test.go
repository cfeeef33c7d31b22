// ABOUTME: Guards the CLI against depending on TUI screens
// ABOUTME: Commands share validation through UI-free packages instead

package cmd

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestCommandsDoNotImportScreens(t *testing.T) {
	const tuiPrefix = "github.com/gursheyss/cs157a/internal/tui/"
	// widgets only formats plain text the CLI prints too
	allowed := map[string]bool{tuiPrefix + "widgets": true}

	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if strings.HasPrefix(path, tuiPrefix) && !allowed[path] {
				t.Errorf("%s imports screen package %s", name, path)
			}
		}
	}
}
