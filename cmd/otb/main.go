// Command otb inspects, renders and views circuit board files.
package main

import "github.com/OpenTraceLab/OpenTraceBoard/cmd/otb/cmd"

func main() {
	cmd.Execute()
}
