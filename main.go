package main

import "github.com/SreeGowri/webutils/cmd"

func main() {
	cmd.Execute()
}
