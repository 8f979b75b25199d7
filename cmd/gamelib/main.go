package main

import "github.com/meur/gamelib/cmd"

func main() {
	cmd.Execute()
}
