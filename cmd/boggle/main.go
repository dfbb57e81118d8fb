// The boggle command scores concrete boards, bounds board classes, and
// breaks classes against a target score.
//
// The bare two-argument form scores a single board:
//
//	boggle <dictionary> <board>
//
// printing "<board>\t<score>" on success. Diagnostics go to stderr; parse
// and I/O failures exit 1.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"boggle/board"
	"boggle/boggler"
	"boggle/breaker"
	"boggle/trie"
)

var log = logrus.WithField("prefix", "main")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "boggle",
		Usage: "score, bound and break Boggle boards",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "size",
				Value: "4x4",
				Usage: "board size: 2x2, 3x3, 3x4 or 4x4",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			logrus.SetOutput(os.Stderr)
			if c.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Action:   scoreAction,
		Commands: []*cli.Command{scoreCommand, boundCommand, breakCommand, canonCommand},
	}
}

func parseSize(c *cli.Context) (board.Dims, error) {
	return board.ParseDims(c.String("size"))
}

func loadDict(path string) (*trie.Trie, error) {
	t, err := trie.CreateFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load dictionary %s", path)
	}
	log.WithField("nodes", t.NumNodes()).Debug("loaded dictionary")
	return t, nil
}

var scoreCommand = &cli.Command{
	Name:      "score",
	Usage:     "score a single concrete board",
	ArgsUsage: "<dictionary> <board>",
	Action:    scoreAction,
}

func scoreAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.Errorf("usage: %s <dictionary> <board>", c.App.Name)
	}
	dims, err := parseSize(c)
	if err != nil {
		return err
	}
	dict, err := loadDict(c.Args().Get(0))
	if err != nil {
		return err
	}
	bd := c.Args().Get(1)
	score, err := boggler.New(dict, dims).Score(bd)
	if err != nil {
		return errors.Wrapf(err, "unable to score board %s", bd)
	}
	fmt.Printf("%s\t%d\n", bd, score)
	return nil
}

var boundCommand = &cli.Command{
	Name:      "bound",
	Usage:     "upper-bound the best score over a board class",
	ArgsUsage: "<dictionary> <class>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "bailout",
			Value: 1<<31 - 1,
			Usage: "stop once both bound flavors exceed this score",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return errors.New("usage: boggle bound <dictionary> <class>")
		}
		dims, err := parseSize(c)
		if err != nil {
			return err
		}
		dict, err := loadDict(c.Args().Get(0))
		if err != nil {
			return err
		}
		bb := boggler.NewBucket(dict, dims)
		if err := bb.ParseBoard(c.Args().Get(1)); err != nil {
			return err
		}
		bound := bb.UpperBound(c.Int("bailout"))
		d := bb.Details()
		fmt.Printf("%s\t%d\n", bb.String(), bound)
		fmt.Printf("max_nomark=%d sum_union=%d bailout_cell=%d reps=%d\n",
			d.MaxNomark, d.SumUnion, d.BailoutCell, bb.NumReps())
		return nil
	},
}

var breakCommand = &cli.Command{
	Name:      "break",
	Usage:     "find every board in the classes that can beat a score",
	ArgsUsage: "<dictionary> <class>...",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:     "best",
			Required: true,
			Usage:    "the score to beat",
		},
		&cli.BoolFlag{
			Name:  "orderly",
			Usage: "break with a single orderly-bound walk",
		},
		&cli.BoolFlag{
			Name:  "masked",
			Usage: "tighten orderly bounds with masked rescoring",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "print per-level visit statistics",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 2 {
			return errors.New("usage: boggle break --best <n> <dictionary> <class>...")
		}
		dims, err := parseSize(c)
		if err != nil {
			return err
		}
		dict, err := loadDict(c.Args().Get(0))
		if err != nil {
			return err
		}
		br := breaker.New(dict, dims, breaker.Options{
			BestScore:      c.Int("best"),
			UseOrderly:     c.Bool("orderly") || c.Bool("masked"),
			UseMaskedScore: c.Bool("masked"),
		})

		classes := c.Args().Slice()[1:]
		var bar *progressbar.ProgressBar
		if len(classes) > 1 {
			bar = progressbar.Default(int64(len(classes)), "breaking")
		}
		for _, class := range classes {
			stats, err := br.Break(class)
			if err != nil {
				return errors.Wrapf(err, "unable to break class %q", class)
			}
			for _, f := range stats.Unbroken {
				fmt.Printf("%s\t%d\n", f.Board, f.Bound)
			}
			if c.Bool("stats") {
				for _, line := range stats.LevelSummary() {
					fmt.Fprintln(os.Stderr, line)
				}
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		return nil
	},
}

var canonCommand = &cli.Command{
	Name:      "canon",
	Usage:     "print the canonical form of a board",
	ArgsUsage: "<board>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "grid",
			Usage: "also render the board as a grid",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("usage: boggle canon <board>")
		}
		dims, err := parseSize(c)
		if err != nil {
			return err
		}
		canon, err := board.NewSymmetry(dims).Canonicalize(c.Args().Get(0))
		if err != nil {
			return err
		}
		fmt.Println(canon)
		if c.Bool("grid") {
			fmt.Print(dims.GridString(canon))
		}
		return nil
	},
}
