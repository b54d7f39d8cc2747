// Package main is the entry point for the xpsplot CLI.
package main

import "github.com/sharach/XPS-data-analysis-program/cmd"

func main() {
	cmd.Execute()
}
