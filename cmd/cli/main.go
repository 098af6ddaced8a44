package main

import "maiscore/internal/cli"

func main() {
	cli.Execute()
}
