// Command lockdin-tz converts between US Eastern time and UTC offline.
package main

import "lockdin/internal/cli"

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Execute(cli.NewRootCommand())
}
