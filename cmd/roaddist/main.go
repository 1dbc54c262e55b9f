package main

import "github.com/lintang-b-s/roaddist/cmd/roaddist/commands"

func main() {
	commands.Execute()
}
