package main

import "github.com/agentic-research/romsort/cmd"

func main() {
	cmd.Execute()
}
