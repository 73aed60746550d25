// Command kpitrack records KPIs and their measurements and exports them as
// CSV reports or JSON snapshots.
package main

import "github.com/mesh-intelligence/kpitrack/internal/cli"

func main() {
	cli.Execute()
}
