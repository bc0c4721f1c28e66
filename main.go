package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/Southclaws/fault/fmsg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"golang.org/x/sync/errgroup"

	"stepseq/config"
	"stepseq/debug"
	"stepseq/midi"
	"stepseq/sequencer"
	"stepseq/theme"
	"stepseq/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	if cfg.Debug.Enabled {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	palette, err := theme.LoadOrDefault(cfg.Palette)
	if err != nil {
		debug.Log("theme", "palette %s: %v, using %s", cfg.Palette, err, palette.Name)
	}
	th := theme.New(palette)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	defer gomidi.CloseDriver()
	out := openOutput(ctx, cfg)

	seq, err := sequencer.New(cfg, out)
	if err != nil {
		out.Close()
		return err
	}
	defer seq.Close()

	p := tea.NewProgram(tui.NewModel(seq, seq.UpdateChan, th), tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)

	g.Go(func() error {
		return seq.Run(loopCtx)
	})
	g.Go(func() error {
		defer stopLoop()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func openOutput(ctx context.Context, cfg *config.Config) midi.Output {
	if cfg.Output.PortName == "" {
		fmt.Println("stepseq: no MIDI output configured, running silent")
		fmt.Println("Set STEPSEQ_MIDI_PORT or output.portName in", configPath())
		return midi.NullOutput{}
	}

	out, err := midi.OpenOutput(ctx, cfg.Output.PortName)
	if err != nil {
		debug.Log("midi", "open %q: %v", cfg.Output.PortName, err)
		fmt.Printf("stepseq: %s, running silent\n", fmsg.GetIssue(err))
		return midi.NullOutput{}
	}
	debug.Log("midi", "output %s channel %d", out.Name(), cfg.MIDIChannel()+1)
	return out
}

func configPath() string {
	path, err := config.ConfigPath()
	if err != nil {
		return "config.json"
	}
	return path
}
