package main

import "github.com/fooddash/fooddash/cmd"

func main() {
	cmd.Execute()
}
