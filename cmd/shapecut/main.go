package main

import "github.com/inamate/shapecut/cmd/shapecut/cmd"

func main() {
	cmd.Execute()
}
