package main

import "github.com/dhirendraxd/CyberSentry-sub000/cmd/sentryd/commands"

func main() {
	commands.Execute()
}
