// Command suiobject loads payload files into dynamic containers and
// inspects, queries, invokes, persists and tests them.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/suiobject/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
