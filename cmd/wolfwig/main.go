// Command wolfwig runs a Game Boy cartridge image headlessly, driving
// the core for a fixed number of frames and echoing anything the
// cartridge writes to the serial port to stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/slongfield/wolfwig/internal/gameboy"
	"github.com/slongfield/wolfwig/internal/ppu"
	"github.com/slongfield/wolfwig/internal/romfile"
	"github.com/slongfield/wolfwig/pkg/log"
)

func main() {
	app := cli.NewApp()
	app.Name = "wolfwig"
	app.Usage = "wolfwig --rom <file> [options]"
	app.Description = "A Game Boy emulator core, run headlessly"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (.gb, .gbc, or .7z)",
		},
		cli.StringFlag{
			Name:  "boot",
			Usage: "Path to an optional 256-byte DMG boot ROM image",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without producing any frame output (always true for now)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run before exiting; 0 runs until the ROM halts or errors",
			Value: 0,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return fmt.Errorf("wolfwig: no ROM path provided")
		}
	}

	rom, err := romfile.Load(romPath)
	if err != nil {
		return err
	}

	var bootROM []byte
	if bootPath := c.String("boot"); bootPath != "" {
		bootROM, err = romfile.Load(bootPath)
		if err != nil {
			return err
		}
	}

	frameLimit := c.Int("frames")
	sink := &frameCounter{limit: frameLimit}

	logger := log.New()
	machine, err := gameboy.New(rom, gameboy.Options{
		BootROM:     bootROM,
		FrameSink:   sink,
		DebugWriter: os.Stdout,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sink.cancel = cancel
	defer cancel()

	if err := machine.Run(ctx); err != nil {
		return err
	}

	logger.Infof("ran %d frames", sink.count)
	return nil
}

// frameCounter is a gameboy.FrameSink that just counts deliveries and,
// once a nonzero limit is reached, cancels the run loop. A real front
// end would instead blit frame into a texture or window here.
type frameCounter struct {
	limit  int
	count  int
	cancel context.CancelFunc
}

func (f *frameCounter) Deliver(_ ppu.Frame, _ gameboy.Palette) {
	f.count++
	if f.limit > 0 && f.count >= f.limit {
		f.cancel()
	}
}
