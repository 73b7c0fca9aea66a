package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/dragon"
)

// inspectStep is the fixed tick used when --advance replays time.
const inspectStep = 1.0 / 60

type inspection struct {
	Demo  string          `yaml:"demo"`
	Mode  string          `yaml:"mode"`
	Err   string          `yaml:"error,omitempty"`
	Frame *dragon.Hoisted `yaml:"frame"`
}

func newInspectCmd(g *globals) *cobra.Command {
	var (
		press   string
		moves   []string
		release bool
		advance float64
	)
	cmd := &cobra.Command{
		Use:   "inspect <demo>",
		Short: "Dump a demo's rendered frame as YAML",
		Long: `Renders the named demo headlessly and prints the hoisted frame. A gesture can be
replayed first: --press x,y starts a drag, each --move x,y moves the pointer,
--release lets go and --advance runs the animation clock for that many seconds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := lookupDemo(args[0])
			if err != nil {
				return err
			}
			opts, err := g.options()
			if err != nil {
				return err
			}
			s, err := d.New(opts...)
			if err != nil {
				return err
			}

			if press != "" {
				p, err := parsePoint(press)
				if err != nil {
					return fmt.Errorf("--press: %w", err)
				}
				s.PointerDownAt(p)
				last := p
				for _, m := range moves {
					if last, err = parsePoint(m); err != nil {
						return fmt.Errorf("--move: %w", err)
					}
					s.PointerMove(last)
				}
				if release {
					s.PointerUp(last)
				}
			}
			for t := 0.0; t < advance; t += inspectStep {
				s.Update(inspectStep)
			}

			out := inspection{Demo: d.Name, Mode: s.Mode().String(), Frame: s.Frame()}
			if err := s.Err(); err != nil {
				out.Err = err.Error()
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&press, "press", "", "press the pointer at x,y")
	cmd.Flags().StringArrayVar(&moves, "move", nil, "move the pointer to x,y (repeatable)")
	cmd.Flags().BoolVar(&release, "release", false, "release the pointer after the moves")
	cmd.Flags().Float64Var(&advance, "advance", 0, "seconds of animation to run before dumping")
	return cmd
}

func parsePoint(s string) (r2.Vec, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return r2.Vec{}, fmt.Errorf("point %q is not x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return r2.Vec{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return r2.Vec{}, fmt.Errorf("point %q: %w", s, err)
	}
	return r2.Vec{X: x, Y: y}, nil
}
