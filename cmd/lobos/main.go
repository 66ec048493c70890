package main

import "github.com/santihernandis/lobos-go/internal/cli"

func main() {
	cli.Execute()
}
