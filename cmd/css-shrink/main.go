// Package main is the entry point for the css-shrink CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/parser/css"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/parser/js"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeParsers()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

// closeParsers releases the tree-sitter parsers pooled during the run
func closeParsers() {
	css.ClosePool()
	js.ClosePool()
}
