package main

import "github.com/nikogura/resume-coach/cmd"

func main() {
	cmd.Execute()
}
