package main

import "github.com/harpsync/harpsync/cmd"

func main() {
	cmd.Execute()
}
