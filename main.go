package main

import "studyhub/cmd"

func main() {
	cmd.Execute()
}
