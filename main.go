package main

import "github.com/emmiamia/nourishsteps/cmd"

func main() {
	cmd.Execute()
}
