package main

import "github.com/OpenTraceLab/fastboot/cmd/fastboot/cmd"

func main() {
	cmd.Execute()
}
