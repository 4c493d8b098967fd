// Command mdsift searches markdown files by heading structure.
package main

import "github.com/mouse-blink/mdsift/cmd"

func main() {
	cmd.Execute()
}
