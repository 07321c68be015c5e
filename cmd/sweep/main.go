package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/lifesweeper/internal/mines"
)

var (
	size  string
	seed  uint64
	debug bool
)

func init() {
	flag.StringVar(&size, "size", "12x12", "board size as <width>x<height>")
	flag.Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	flag.BoolVar(&debug, "debug", false, "write placement traces to sweep.log")
}

func run(s *sweeper) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	for {
		draw(screen, s)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			running, err := handleKey(s, ev)
			if err != nil || !running {
				return err
			}
		case nil:
			return nil
		}
	}
}

func main() {
	flag.Parse()

	if debug {
		f, err := os.OpenFile("sweep.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		mines.Log.SetOutput(f)
		mines.Log.SetLevel(logrus.DebugLevel)
	}

	params, err := mines.ParseSize(size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	s, err := newSweeper(params, mines.DefaultBounds(), rand.New(rand.NewPCG(seed, 2)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(s); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
