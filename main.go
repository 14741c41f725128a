package main

import "aggregate-persistence/cmd"

func main() {
	cmd.Execute()
}
