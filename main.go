package main

import "github.com/chrisdamba/kioskorder/cmd"

func main() {
	cmd.Execute()
}
