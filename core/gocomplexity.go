package core

import (
	"go/ast"
	"go/parser"
	"go/token"
)

// goCyclomaticComplexity parses a Go source file and returns the summed
// cyclomatic complexity of its functions: one point per function plus
// one per decision point (if, for, case, select case, && and ||).
func goCyclomaticComplexity(filename string, src []byte) (float64, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		total += funcComplexity(fn.Body)
	}
	return float64(total), nil
}

// funcComplexity computes the cyclomatic complexity of one function body.
func funcComplexity(body *ast.BlockStmt) int {
	complexity := 1
	ast.Inspect(body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt, *ast.CaseClause, *ast.CommClause:
			complexity++
		case *ast.BinaryExpr:
			if node.Op == token.LAND || node.Op == token.LOR {
				complexity++
			}
		case *ast.FuncLit:
			// Function literals count toward the enclosing function
		}
		return true
	})
	return complexity
}
