/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/csemotors/dealer/cmd"

func main() {
	cmd.Execute()
}
