package main

import "github.com/firstlinehq/firstline/cmd"

func main() {
	cmd.Execute()
}
