package main

import "github.com/viant/vecmem/cmd/vecmem/cli"

func main() {
	cli.Execute()
}
