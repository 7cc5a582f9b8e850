package main

import "github.com/fxsml/pushpipe/internal/cli"

func main() {
	cli.Execute()
}
