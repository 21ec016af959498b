package main

import "github.com/besslframework/claude-tune/cmd"

func main() {
	cmd.Execute()
}
