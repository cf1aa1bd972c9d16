package main

import "github.com/Rorical/BooklyDesk/cmd"

func main() {
	cmd.Execute()
}
