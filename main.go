// ABOUTME: Entry point for the rolodex CLI
// ABOUTME: Hands off to the cobra command tree
package main

import (
	"os"

	"github.com/harperreed/rolodex/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	os.Exit(cli.Execute())
}
