// Package main is the entry point for the faultline CLI.
package main

import "faultline.dev/pkg/faultline/cmd"

func main() {
	cmd.Execute()
}
