package main

import "github.com/papapumpkin/adaptive-palette/cmd"

func main() {
	cmd.Execute()
}
