package main

import "github.com/mcoot/festivalboard/internal/cli"

func main() {
	cli.Execute()
}
