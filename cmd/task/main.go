package main

import "github.com/tasklog/tasklog/internal/cli"

func main() {
	cli.Execute()
}
