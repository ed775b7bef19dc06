package main

import "github.com/mcoot/authstore/internal/cli"

func main() {
	cli.Execute()
}
