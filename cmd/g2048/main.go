package main

import "github.com/mcoot/game2048/internal/cli"

func main() {
	cli.Execute()
}
