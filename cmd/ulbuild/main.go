package main

import "ulbuild/internal/cli"

func main() {
	cli.Execute()
}
