package main

import "github.com/dlebedev/checkride/internal/cli"

func main() {
	cli.Execute()
}
