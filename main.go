/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/Hameed1117/User-Management/cmd"

func main() {
	cmd.Execute()
}
