// mimic CLI - Command-line interface for the mimic mock server
package main

import "github.com/getmockd/mimic/pkg/cli"

func main() {
	cli.Execute()
}
