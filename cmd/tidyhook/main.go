// Tidyhook strips noise comments from source files after an editor edit.
package main

import "github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/cli"

func main() {
	cli.Execute()
}
