package main

import (
	"github.com/VishardMehta/pullwise-ai/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
