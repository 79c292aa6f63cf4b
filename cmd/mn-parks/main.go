package main

import "github.com/mnatlas/mn-parks/internal/cli"

func main() {
	cli.Execute()
}
