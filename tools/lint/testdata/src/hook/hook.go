package hook

import (
	"fmt"
	"io"
	"os"
)

func reply(w io.Writer, msg string) {
	fmt.Fprintf(w, "{\"result\": %q}\n", msg)
}

func debug(msg string) {
	fmt.Println(msg) // want `fmt.Println writes to stdout, which is reserved for the hook reply`
}

func replyDefault(msg string) {
	reply(os.Stdout, msg) // want `os.Stdout is reserved for the hook reply`
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}
