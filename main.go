package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/xiphiasnonus/Tetris/audio"
	"github.com/xiphiasnonus/Tetris/client"
	"golang.org/x/term"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[26;0H\n\r\033[?25h"

	minWidth  = 48
	minHeight = 25
)

func main() {
	name := flag.String("name", petname.Generate(2, "-"), "name shown to spectators")
	addr := flag.String("server", os.Getenv("TETRIS_SERVER"), "spectator hub address, empty to play offline")
	watch := flag.String("watch", "", `session id to watch, or "any"`)
	noGuide := flag.Bool("noguide", false, "start with the drop guide off")
	mute := flag.Bool("mute", false, "start with the sound off")
	logFile := flag.String("log", "tetris.log", "log file")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("tetris needs an interactive terminal")
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < minWidth || h < minHeight) {
		log.Fatalf("terminal is %dx%d, tetris needs at least %dx%d", w, h, minWidth, minHeight)
	}

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer f.Close()
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))

	speaker := audio.New(logger, 1)
	if err := speaker.Init(); err != nil {
		logger.Warn("playing without sound", slog.String("error", err.Error()))
	}
	defer speaker.Close()

	c, closer, err := client.New(logger, speaker, &client.Options{
		NoGuide: *noGuide,
		Mute:    *mute,
		Name:    *name,
		Address: *addr,
		Watch:   *watch,
	})
	if err != nil {
		log.Fatalf("unable to start: %v", err)
	}
	defer closer()

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)
	c.Start()
}
