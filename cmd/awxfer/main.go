package main

import "github.com/assetworks/gantry/cmd/awxfer/cmd"

func main() {
	cmd.Execute()
}
