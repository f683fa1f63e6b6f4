// ABOUTME: Entry point for the bigmeta CLI and MCP server
// ABOUTME: Hands the arguments to the cobra command tree
package main

import (
	"os"

	"github.com/harperreed/bigmeta/cli"
)

const version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
