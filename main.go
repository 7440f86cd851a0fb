/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/lve/engine"
	"github.com/spaghettifunk/lve/engine/config"
	"github.com/spaghettifunk/lve/testbed"
)

const defaultConfigPath = "config.toml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lve: %s\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	path := os.Getenv("LVE_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	tb, err := testbed.NewTestGame(cfg)
	if err != nil {
		return err
	}

	e, err := engine.New(tb.Game)
	if err != nil {
		return err
	}
	defer func() {
		if serr := e.Shutdown(); serr != nil && err == nil {
			err = serr
		}
	}()

	if err := e.Initialize(); err != nil {
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	go func() {
		if _, ok := <-sigCh; ok {
			e.Stop()
		}
	}()

	return e.Run()
}
