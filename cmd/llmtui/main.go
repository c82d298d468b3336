package main

import "github.com/diogo/llmtui/internal/commands"

func main() {
	commands.Execute()
}
