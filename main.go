package main

import "github.com/coder-muller/calculadora-bacen/cmd"

func main() {
	cmd.Execute()
}
