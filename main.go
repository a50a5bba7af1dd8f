package main

import "textools/cmd"

func main() {
	cmd.Execute()
}
