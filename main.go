package main

import "dbpc/cmd"

func main() {
	cmd.Execute()
}
