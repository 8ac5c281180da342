// Package exitcheck reports direct os.Exit calls in main.main.
package exitcheck

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

var Analyzer = &analysis.Analyzer{
	Name:     "exitcheck",
	Doc:      "check for os.Exit calls in main function of main package",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	inspect.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(node ast.Node) {
		funcDecl := node.(*ast.FuncDecl)
		if funcDecl.Recv != nil || funcDecl.Name.Name != "main" || funcDecl.Body == nil {
			return
		}

		ast.Inspect(funcDecl.Body, func(node ast.Node) bool {
			if _, isFuncLit := node.(*ast.FuncLit); isFuncLit {
				return false
			}
			callExpr, ok := node.(*ast.CallExpr)
			if !ok {
				return true
			}
			if isOSExit(pass.TypesInfo, callExpr) {
				pass.Reportf(callExpr.Pos(), "os.Exit call")
			}

			return true
		})
	})

	return nil, nil
}

func isOSExit(info *types.Info, callExpr *ast.CallExpr) bool {
	fn, ok := typeutil.Callee(info, callExpr).(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}

	return fn.Pkg().Path() == "os" && fn.Name() == "Exit"
}
