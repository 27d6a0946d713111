package main

import "github.com/meysamhadeli/sandkit/cmd"

func main() {
	cmd.Execute()
}
