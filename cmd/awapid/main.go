package main

import "github.com/assetworks/gantry/cmd/awapid/cmd"

func main() {
	cmd.Execute()
}
