// Command panelflow runs the panel-detection pipeline over comic books
// from the command line: detect panels, emit default configuration, or
// serve a local inspection web server over an already-detected book.
package main

import "github.com/gocomics/panelflow/cmd/panelflow/cmd"

func main() {
	cmd.Execute()
}
