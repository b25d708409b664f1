// Tidyhook-lint runs the repository's static analysis suite.
//
//	go run ./tools/lint/cmd/tidyhook-lint ./...
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/albertocavalcante/tidyhook/tools/lint"
)

func main() {
	multichecker.Main(lint.Analyzers()...)
}
