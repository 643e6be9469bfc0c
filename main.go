package main

import "bikeetl/cmd"

func main() {
	cmd.Execute()
}
