package main

import "github.com/jsphweid/scorexml/cmd"

func main() {
	cmd.Execute()
}
