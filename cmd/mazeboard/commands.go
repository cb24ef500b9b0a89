package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mazeboard/internal/board"
	"github.com/vancomm/mazeboard/internal/render"
	"github.com/vancomm/mazeboard/internal/store"
)

var ErrUsage = errors.New("bad usage")

type cli struct {
	store   *store.Store
	out     io.Writer
	palette render.Palette
	seed    *board.Seed
}

var commandNargs = map[string][2]int{ // min, max
	"generate": {0, 1},
	"show":     {1, 1},
	"list":     {0, 0},
	"delete":   {1, 1},
}

func (c *cli) run(args []string) error {
	nargs, ok := commandNargs[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if n := len(args) - 1; n < nargs[0] || n > nargs[1] {
		return fmt.Errorf("%w: %s takes %d to %d arguments", ErrUsage, args[0], nargs[0], nargs[1])
	}

	switch args[0] {
	case "generate":
		slot := ""
		if len(args) > 1 {
			slot = args[1]
		}
		return c.generate(slot)
	case "show":
		return c.show(args[1])
	case "list":
		return c.list()
	case "delete":
		return c.delete(args[1])
	}
	return nil
}

func (c *cli) print(b *board.Board) {
	fmt.Fprint(c.out, render.Text(b, c.palette))
}

func (c *cli) generate(slot string) error {
	if slot != "" && !store.ValidName(slot) {
		return fmt.Errorf("%w: %q", store.ErrBadName, slot)
	}

	seed := board.NewSeed()
	if c.seed != nil {
		seed = *c.seed
	}
	b, err := board.Generate(seed.Rand())
	if err != nil {
		return fmt.Errorf("unable to generate board: %w", err)
	}

	c.print(b)
	fmt.Fprintf(c.out, "seed %s  score %d  digest %s\n", seed, b.Score(), b.Digest()[:12])

	if slot == "" {
		return nil
	}
	if err := c.store.Set(slot, b); err != nil {
		return fmt.Errorf("unable to save board to %s: %w", slot, err)
	}
	log.WithFields(logrus.Fields{"slot": slot, "seed": seed.String()}).Info("saved board")
	return nil
}

func (c *cli) show(slot string) error {
	b, err := c.store.Get(slot)
	if err != nil {
		return fmt.Errorf("unable to load board from %s: %w", slot, err)
	}
	c.print(b)
	fmt.Fprintf(c.out, "score %d  digest %s\n", b.Score(), b.Digest()[:12])
	return nil
}

func (c *cli) list() error {
	slots, err := c.store.List()
	if err != nil {
		return err
	}
	log.WithField("count", len(slots)).Debug("listing boards")
	for _, slot := range slots {
		b, err := c.store.Get(slot)
		if err != nil {
			log.WithField("slot", slot).Warn("unreadable board: ", err)
			fmt.Fprintf(c.out, "%s\t(unreadable)\n", slot)
			continue
		}
		fmt.Fprintf(c.out, "%s\t%s\n", slot, b.Digest()[:12])
	}
	return nil
}

func (c *cli) delete(slot string) error {
	if err := c.store.Delete(slot); err != nil {
		return err
	}
	log.WithField("slot", slot).Info("deleted board")
	return nil
}
