package main

import "mavgen/internal/cli"

func main() {
	cli.Execute()
}
