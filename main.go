// Command dwr records daily work entries and aggregates them into period
// reports.
package main

import "github.com/Tiliavir/daily-work-report/cmd"

func main() {
	cmd.Execute()
}
