package main

import "salescrm/cmd/crmctl/commands"

func main() {
	commands.Execute()
}
