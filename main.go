package main

import (
	"context"
	"os"

	"github.com/conneroisu/folio/cmd"
)

func main() {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
