package main

import "github.com/fakeyudi/worklog/cmd"

func main() {
	cmd.Execute()
}
