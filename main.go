package main

import (
	"fmt"
	"log"
	"os"

	"git.lost.host/meutraa/beathop/internal/config"
	"git.lost.host/meutraa/beathop/internal/logging"
	"github.com/eiannone/keyboard"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}
	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if nil != err {
		return err
	}
	defer logger.Sync()

	keys, err := keyboard.GetKeys(16)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			logger.Warnw("unable to close keyboard", "error", err)
		}
	}()

	p := &Program{Config: cfg, Log: logger}
	defer p.Deinit()
	if err := p.Init(); nil != err {
		return err
	}
	return p.Run(keys)
}
