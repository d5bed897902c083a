// Command collectionlint scans Go sources for direct access to the
// protected record collections. Only the gateway and the store
// implementation behind it may name a protected collection; any other
// call site must go through the gateway so that scoping and integrity
// rules cannot be skipped.
//
// A call site can be exempted with a trailing or preceding
// "//authz:admin-bypass" comment. Exemptions are meant for migration
// scripts and show up in code review.
//
// Exit status is 1 when violations are found.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

const bypassMarker = "authz:admin-bypass"

// storeMethods are the raw store operations a protected collection name
// must never be passed to outside the allowed packages.
var storeMethods = map[string]bool{
	"GetAll":     true,
	"GetByID":    true,
	"Insert":     true,
	"Update":     true,
	"Delete":     true,
	"Collection": true, // direct mongo driver access
}

// defaultAllow lists the path prefixes where naming a protected
// collection is legitimate: the gateway, the store behind it, and the
// lint tool itself.
var defaultAllow = []string{
	"internal/core/service",
	"internal/core/domain",
	"internal/infrastructure/db/mongo",
	"internal/infrastructure/queue",
	"cmd/collectionlint",
}

type finding struct {
	pos        token.Position
	collection string
	method     string
}

func (f finding) String() string {
	return fmt.Sprintf("%s: %q passed to %s outside the data gateway", f.pos, f.collection, f.method)
}

func main() {
	root := flag.String("root", ".", "directory tree to scan")
	allowFlag := flag.String("allow", strings.Join(defaultAllow, ","), "comma-separated path prefixes exempt from the rule")
	flag.Parse()

	findings, err := scan(*root, strings.Split(*allowFlag, ","))
	if err != nil {
		fmt.Fprintln(os.Stderr, "collectionlint:", err)
		os.Exit(2)
	}

	for _, f := range findings {
		fmt.Println(f)
	}
	if len(findings) > 0 {
		os.Exit(1)
	}
}

// scan walks the tree under root and reports every protected
// collection name passed to a store method from a file outside the
// allow list.
func scan(root string, allow []string) ([]finding, error) {
	protected := make(map[string]bool)
	for _, c := range domain.ProtectedCollections() {
		protected[string(c)] = true
	}

	var findings []finding
	seen := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, prefix := range allow {
			if prefix != "" && strings.HasPrefix(rel, prefix) {
				return nil
			}
		}

		fileFindings, err := scanFile(path)
		if err != nil {
			return err
		}
		for _, f := range fileFindings {
			if !protected[f.collection] {
				continue
			}
			// A literal wrapped in a conversion is seen twice, once
			// for each enclosing call. Report the line once.
			key := fmt.Sprintf("%s:%d:%s", f.pos.Filename, f.pos.Line, f.collection)
			if seen[key] {
				continue
			}
			seen[key] = true
			findings = append(findings, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i].pos, findings[j].pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Line < b.Line
	})
	return findings, nil
}

// scanFile parses one file and returns every string literal passed to a
// store method, regardless of whether the literal names a protected
// collection. The caller filters against the protected set.
func scanFile(path string) ([]finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	bypassed := make(map[int]bool)
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if strings.Contains(c.Text, bypassMarker) {
				line := fset.Position(c.Pos()).Line
				bypassed[line] = true
				bypassed[line+1] = true
			}
		}
	}

	var findings []finding
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !storeMethods[sel.Sel.Name] {
			return true
		}

		for _, arg := range call.Args {
			lit := stringLiteral(arg)
			if lit == "" {
				continue
			}
			pos := fset.Position(call.Pos())
			if bypassed[pos.Line] {
				continue
			}
			findings = append(findings, finding{pos: pos, collection: lit, method: sel.Sel.Name})
		}
		return true
	})
	return findings, nil
}

// stringLiteral unwraps a string literal argument, including one
// wrapped in a single type conversion such as domain.Collection("x").
func stringLiteral(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			if s, err := strconv.Unquote(e.Value); err == nil {
				return s
			}
		}
	case *ast.CallExpr:
		if len(e.Args) == 1 {
			return stringLiteral(e.Args[0])
		}
	}
	return ""
}
