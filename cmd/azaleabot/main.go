// Command azaleabot is a minimal standalone runner: it loads a config.toml
// (creating one with defaults if absent, the same read-or-create convention
// server/conf.go's UserConfig pattern follows), dials a server, and drives
// the Client's tick loop until interrupted.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dragonfly-bot/azalea/client"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the bot's configuration file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	uc, err := client.LoadUserConfig(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	conf, err := uc.Config(log)
	if err != nil {
		log.Error("resolve config", "err", err)
		os.Exit(1)
	}

	c := client.New(conf)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Connect(ctx); err != nil {
		log.Error("connect", "err", err)
		os.Exit(1)
	}
	log.Info("connected", "address", conf.Address, "username", conf.Username)

	go logChunks(log, c)

	if err := c.Run(ctx, nil); err != nil && ctx.Err() == nil {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}

// logChunks reports every decoded chunk at debug level, a bare-bones stand-in
// for the richer event handling a real bot script would register.
func logChunks(log *slog.Logger, c *client.Client) {
	for pos := range c.Events().Chunk {
		log.Debug("received chunk", "x", pos.X, "z", pos.Z)
	}
}
