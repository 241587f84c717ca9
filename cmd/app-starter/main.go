package main

import "github.com/oshokin/app-starter/cmd/app-starter/cmd"

func main() {
	cmd.Execute()
}
