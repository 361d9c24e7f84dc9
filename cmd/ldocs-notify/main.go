package main

import "github.com/learning-layers/ldocs-updatetime/cmd/ldocs-notify/cmd"

func main() {
	cmd.Execute()
}
