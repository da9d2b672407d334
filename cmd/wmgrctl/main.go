package main

import "github.com/demellj/wmgrd/cmd/wmgrctl/commands"

func main() {
	commands.Execute()
}
