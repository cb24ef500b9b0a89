package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	bolt "go.etcd.io/bbolt"

	"github.com/vancomm/mazeboard/internal/board"
	"github.com/vancomm/mazeboard/internal/render"
	"github.com/vancomm/mazeboard/internal/store"
)

const storeName = "boards"

var (
	log = logrus.New()

	dbPath  string
	seedStr string
	color   bool
	logFile string
	verbose bool
)

func init() {
	const (
		defaultDbPath = "boards.db"
		usage         = "board store file"
	)
	flag.StringVar(&dbPath, "db", defaultDbPath, usage)
	flag.StringVar(&seedStr, "seed", "", "generate from this seed (hi:lo)")
	flag.BoolVar(&color, "color", false, "colour the board with ANSI escapes")
	flag.StringVar(&logFile, "log-file", "", "also write JSON logs to this rotating file")
	flag.BoolVar(&verbose, "v", false, "debug logging")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `usage: %s [flags] <command> [args]

commands:
  generate [slot]  generate a board, print it and save it to slot if given
  show <slot>      print a saved board
  list             list saved boards
  delete <slot>    delete a saved board

flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
}

func setupLogging() {
	logLevel := logrus.InfoLevel
	if verbose {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.Fatal("unable to open log file: ", err)
		}
		log.AddHook(hook)
	}

	// generation events arrive through slog; forward them as debug entries
	board.Log = slog.New(slog.NewTextHandler(
		log.WriterLevel(logrus.DebugLevel),
		&slog.HandlerOptions{Level: slog.LevelDebug},
	))
}

func run(args []string) error {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", dbPath, err)
	}
	defer db.Close()

	s, err := store.NewStore(db, storeName)
	if err != nil {
		return fmt.Errorf("unable to open board store: %w", err)
	}

	c := &cli{store: s, out: os.Stdout, palette: render.Plain}
	if color {
		c.palette = render.ANSI
	}
	if seedStr != "" {
		seed, err := board.ParseSeed(seedStr)
		if err != nil {
			return err
		}
		c.seed = &seed
	}

	log.WithFields(logrus.Fields{"db": dbPath, "command": args[0]}).Debug("starting")
	return c.run(args)
}

func main() {
	flag.Parse()
	setupLogging()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Args()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
