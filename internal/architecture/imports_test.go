package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type importRef struct {
	file string
	imp  string
}

func moduleInfo(t *testing.T) (root, modulePath string) {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err = findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err = readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return root, modulePath
}

// walkImports calls visit with the imports of every .go file under internal/.
func walkImports(t *testing.T, root string, visit func(rel string, imports []string)) {
	t.Helper()

	fset := token.NewFileSet()
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		var imports []string
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			if imp, err := strconv.Unquote(spec.Path.Value); err == nil {
				imports = append(imports, imp)
			}
		}
		visit(filepath.ToSlash(rel), imports)
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
}

// Lower layers never import higher ones.
var layerOrder = []string{
	"internal/platform/",
	"internal/pkg/",
	"internal/normalization/",
	"internal/domain/",
	"internal/data/",
	"internal/services/",
	"internal/http/",
	"internal/app/",
}

func layerIndex(path string) int {
	for i, prefix := range layerOrder {
		if strings.HasPrefix(path, prefix) {
			return i
		}
	}
	return -1
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleInfo(t)
	var violations []importRef
	walkImports(t, root, func(rel string, imports []string) {
		from := layerIndex(rel)
		if from < 0 {
			return
		}
		for _, imp := range imports {
			if !strings.HasPrefix(imp, modulePath+"/") {
				continue
			}
			to := layerIndex(strings.TrimPrefix(imp, modulePath+"/") + "/")
			// observability sits beside data and is shared by services and http.
			if to > from && !strings.HasPrefix(imp, modulePath+"/internal/observability") {
				violations = append(violations, importRef{file: rel, imp: imp})
			}
		}
	})
	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q\n", v.file, v.imp)
		}
		t.Fatal(b.String())
	}
}

func TestClientsImportedOnlyByApp(t *testing.T) {
	root, modulePath := moduleInfo(t)
	var violations []importRef
	walkImports(t, root, func(rel string, imports []string) {
		if strings.HasPrefix(rel, "internal/clients/") || strings.HasPrefix(rel, "internal/app/") {
			return
		}
		for _, imp := range imports {
			if strings.HasPrefix(imp, modulePath+"/internal/clients/") {
				violations = append(violations, importRef{file: rel, imp: imp})
			}
		}
	})
	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("internal/clients imports found outside internal/app:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q\n", v.file, v.imp)
		}
		t.Fatal(b.String())
	}
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
