package controllers

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"strings"
	"testing"
)

// Every gin handler carries a swag block so `swag init` documents the whole
// REST surface.
func TestHandlersHaveRouteAnnotations(t *testing.T) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, ".", func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}

	handlers := 0
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Recv == nil || !fn.Name.IsExported() || !isGinHandler(fn) {
					continue
				}
				handlers++
				if fn.Doc == nil || !strings.Contains(fn.Doc.Text(), "@Router ") {
					t.Errorf("%s: handler %s has no @Router annotation", fset.Position(fn.Pos()), fn.Name.Name)
				}
			}
		}
	}
	if handlers == 0 {
		t.Fatal("no handlers found")
	}
}

func isGinHandler(fn *ast.FuncDecl) bool {
	params := fn.Type.Params.List
	if len(params) != 1 || fn.Type.Results != nil {
		return false
	}
	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "Context"
}
