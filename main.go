package main

import "github.com/theirongolddev/cxdash/cmd"

func main() {
	cmd.Execute()
}
