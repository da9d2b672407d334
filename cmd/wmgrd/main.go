package main

import "github.com/demellj/wmgrd/cmd/wmgrd/commands"

func main() {
	commands.Execute()
}
