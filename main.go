package main

import "github.com/iksnae/buddy/cmd"

func main() {
	cmd.Execute()
}
