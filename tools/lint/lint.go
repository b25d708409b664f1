// Package lint bundles the static checks run over the tidyhook tree.
//
// Besides the stock analyzers it carries nostdout, which guards the hook
// protocol: in hook mode stdout carries only the JSON reply, so packages
// listed in -nostdout.packages must write through an injected io.Writer.
package lint

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/kisielk/errcheck/errcheck"
	"go.uber.org/nilaway"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzers returns every analyzer of the suite.
func Analyzers() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		copylock.Analyzer,
		errcheck.Analyzer,
		errorsas.Analyzer,
		lostcancel.Analyzer,
		nilaway.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unusedresult.Analyzer,
		NoStdout,
	}
}

// NoStdout reports writes to the process stdout in reserved packages.
var NoStdout = &analysis.Analyzer{
	Name:     "nostdout",
	Doc:      "report fmt.Print* calls and os.Stdout uses in packages whose stdout is reserved for a machine-readable reply",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      runNoStdout,
}

var reservedPackages string

func init() {
	NoStdout.Flags.StringVar(&reservedPackages, "packages", "hook",
		"comma-separated package names whose stdout is reserved")
}

var stdoutPrinters = map[string]bool{"Print": true, "Printf": true, "Println": true}

func runNoStdout(pass *analysis.Pass) (any, error) {
	if !reserved(pass.Pkg.Name()) {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	nodes := []ast.Node{(*ast.CallExpr)(nil), (*ast.SelectorExpr)(nil)}
	insp.Preorder(nodes, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.CallExpr:
			fn := typeutil.StaticCallee(pass.TypesInfo, n)
			if fn != nil && fn.Pkg() != nil && fn.Pkg().Path() == "fmt" && stdoutPrinters[fn.Name()] {
				pass.Reportf(n.Pos(), "fmt.%s writes to stdout, which is reserved for the hook reply", fn.Name())
			}
		case *ast.SelectorExpr:
			v, ok := pass.TypesInfo.Uses[n.Sel].(*types.Var)
			if ok && v.Pkg() != nil && v.Pkg().Path() == "os" && v.Name() == "Stdout" {
				pass.Reportf(n.Pos(), "os.Stdout is reserved for the hook reply; write to the injected writer")
			}
		}
	})
	return nil, nil
}

func reserved(name string) bool {
	for _, p := range strings.Split(reservedPackages, ",") {
		if strings.TrimSpace(p) == name {
			return true
		}
	}
	return false
}
