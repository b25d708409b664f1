package other

import (
	"fmt"
	"os"
)

func report(n int) {
	fmt.Printf("stripped %d comment(s)\n", n)
	fmt.Fprintln(os.Stdout, "done")
}
