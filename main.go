// Package main provides the entry point for the parcluster CLI.
package main

import "yqhp/parcluster/cmd"

func main() {
	cmd.Execute()
}
