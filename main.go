package main

import "github.com/samuelfneumann/mazerl/cli"

func main() {
	cli.Execute()
}
