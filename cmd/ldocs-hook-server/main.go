package main

import "github.com/learning-layers/ldocs-updatetime/cmd/ldocs-hook-server/cmd"

func main() {
	cmd.Execute()
}
