// Command qshogi runs a self-play loop against the quantum rule engine and,
// when configured, streams each turn to a local debug server over websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"qshogi/internal/devserver"
	"qshogi/internal/engineconfig"
	"qshogi/internal/quantum"
)

var (
	configPath = flag.String("config", "./config.yaml", "path to engine config")
	games      = flag.Int("games", 1, "number of self-play games to run")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Println(err)
	}
}

func run() error {
	cfg, err := engineconfig.FromYaml(*configPath)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(appCtx)

	var dev *devserver.Server
	if cfg.DevServerAddr != "" {
		dev = devserver.New(cfg.DevServerAddr)
		group.Go(func() error { return dev.Run(ctx) })
	}

	group.Go(func() error {
		defer func() {
			if dev != nil {
				close(dev.Updates)
			}
		}()
		return selfPlay(ctx, cfg, rng, dev, *games)
	})

	return group.Wait()
}

// selfPlay runs n games of uniformly-random legal moves against the engine,
// offering a Snapshot per turn when dev is non-nil (skipped when dev.Updates
// is full). This exists to exercise
// the engine end-to-end and to give the debug server something to show; it
// is not a player worth learning from.
func selfPlay(ctx context.Context, cfg engineconfig.Config, rng *rand.Rand, dev *devserver.Server, n int) error {
	for g := 0; g < n; g++ {
		if err := ctx.Err(); err != nil {
			return nil
		}

		eng := quantum.NewEngine(cfg.MoveLimit)
		for {
			mask := eng.ActionMask()
			if eng.Terminal().IsTerminal() || mask.Count() == 0 {
				break
			}

			action := pickRandomAction(mask, rng)
			if _, err := eng.Step(action); err != nil {
				return fmt.Errorf("self-play: %w", err)
			}

			if dev != nil {
				snap := devserver.Snapshot{
					Turn:       eng.Turn(),
					SideToMove: eng.State().SideToMove,
					Terminal:   eng.Terminal().Kind,
					Obs:        eng.Observe(),
				}
				select {
				case dev.Updates <- snap:
				case <-ctx.Done():
					return nil
				default:
				}
			}
		}
	}
	return nil
}

// pickRandomAction samples uniformly among the set legal actions in mask,
// using the caller-supplied RNG rather than the global one.
func pickRandomAction(mask quantum.ActionMask, rng *rand.Rand) int {
	n := mask.Count()
	target := rng.Intn(n)
	count := 0
	for action, ok := range mask {
		if !ok {
			continue
		}
		if count == target {
			return action
		}
		count++
	}
	panic("pickRandomAction: mask changed under us")
}
