package main

import (
	"context"
	"io"
	"os"
	"runtime/debug"

	"github.com/massmux/ZapWall/internal"
	"github.com/massmux/ZapWall/internal/lnbits"
	"github.com/massmux/ZapWall/internal/nostr"
	"github.com/massmux/ZapWall/internal/price"
	"github.com/massmux/ZapWall/internal/ui"
	"github.com/massmux/ZapWall/internal/wall"
	log "github.com/sirupsen/logrus"
)

// setLogger will initialize the log format
func setLogger(configuration *internal.Configuration) {
	log.SetLevel(log.InfoLevel)
	if configuration.Lnbits.VerboseRaw || configuration.Nostr.VerboseRelay {
		log.SetLevel(log.DebugLevel)
	}
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	customFormatter.ForceColors = true
	log.SetFormatter(customFormatter)
	if configuration.Wall.LogFile != "" {
		f, err := os.OpenFile(configuration.Wall.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Errorf("[Log] could not open log file: %s", err.Error())
			return
		}
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}
}

func main() {
	defer withRecovery()

	configuration, err := internal.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("[Config] %s", err.Error())
	}
	setLogger(configuration)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board := wall.NewBoard(configuration.Wall.MaxComments)
	updates := make(chan wall.Message, 16)

	resolver := nostr.NewResolver(
		configuration.Nostr.Relays,
		configuration.Nostr.Timeout(),
		configuration.Nostr.VerboseRelay,
	)
	interpreter := wall.NewInterpreter(resolver, updates,
		wall.WithVerboseRaw(configuration.Lnbits.VerboseRaw),
	)
	listener := lnbits.NewListener(configuration.Lnbits.Endpoint,
		func(raw []byte) {
			interpreter.HandleMessage(ctx, raw)
		},
		lnbits.WithInvoiceKey(configuration.Lnbits.InvoiceKey),
		lnbits.WithReconnect(!configuration.Lnbits.DisableReconnect),
	)
	go listener.Run(ctx)

	qr := ""
	if configuration.Wall.LightningAddress != "" {
		qr, err = ui.PayQR(configuration.Wall.LightningAddress)
		if err != nil {
			log.Errorf("[Wall] could not render pay QR: %s", err.Error())
			qr = ""
		}
	}

	var wallOptions []ui.WallOption
	if configuration.Wall.Currency != "" {
		watcher := price.NewPriceWatcher(configuration.Wall.Currency)
		watcher.Start(ctx)
		wallOptions = append(wallOptions, ui.WithFiat(watcher, watcher.Currency))
	}

	if err := ui.NewWall(board, updates, qr, wallOptions...).Run(ctx, cancel); err != nil {
		log.Fatalf("[Wall] %s", err.Error())
	}
}

func withRecovery() {
	if r := recover(); r != nil {
		log.Errorln("Recovered panic: ", r)
		debug.PrintStack()
	}
}
