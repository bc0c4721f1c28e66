package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"stepseq/channel"
	"stepseq/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer gomidi.CloseDriver()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts(ctx)
	case "ping":
		err = ping(ctx, os.Args[2:])
	case "kit":
		showKit(os.Args[2:])
	case "poll":
		err = pollPorts(ctx)
	default:
		usage()
	}

	if err != nil {
		if issue := fmsg.GetIssue(err); issue != "" {
			fmt.Println("Error:", issue)
		} else {
			fmt.Println("Error:", err)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                        - List MIDI output ports")
	fmt.Println("  ping <port> [slot] [chan]   - Play one drum hit (default: kick on channel 10)")
	fmt.Println("  kit [name]                  - Show the notes of a drum kit")
	fmt.Println("  poll                        - Poll for output port changes")
}

func listPorts(ctx context.Context) error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.ListOutPorts(ctx)
	if err != nil {
		fmt.Println("Fix (macOS): sudo killall coreaudiod midiserver")
		return err
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func ping(ctx context.Context, args []string) error {
	if len(args) < 1 {
		usage()
		return nil
	}

	slot := "kick"
	if len(args) > 1 {
		slot = args[1]
	}
	ch := 10
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		ch = max(1, min(n, 16))
	}

	note, ok := channel.GetKit(channel.DefaultKit).Slot(slot)
	if !ok {
		return fmt.Errorf("unknown slot %q, want one of %s", slot, strings.Join(channel.SlotNames[:], ", "))
	}

	out, err := midi.OpenOutput(ctx, args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("Sending %s (note %d) to %s on channel %d\n", slot, note, out.Name(), ch)
	hit := midi.Hit{Channel: uint8(ch - 1), Note: note, Velocity: 100}
	for i := 0; i < 4; i++ {
		if err := midi.SendHit(out, hit); err != nil {
			return err
		}
		time.Sleep(250 * time.Millisecond)
	}
	fmt.Println("Done!")
	return nil
}

func showKit(args []string) {
	names := channel.KitNames()
	if len(args) > 0 {
		names = args[:1]
	}
	for _, name := range names {
		kit := channel.GetKit(name)
		fmt.Printf("=== %s (%s) ===\n", name, kit.Name)
		for i, slot := range channel.SlotNames {
			fmt.Printf("  %-11s %3d\n", slot, kit.Notes[i])
		}
	}
}

func pollPorts(ctx context.Context) error {
	fmt.Println("Polling for output port changes every 2 seconds...")
	fmt.Println("Connect/disconnect a device to test. Ctrl+C to exit.")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	last := ""
	for {
		names, err := midi.ListOutPorts(ctx)
		if err != nil {
			return err
		}
		if current := strings.Join(names, ","); current != last {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Outputs: %v\n", names)
			last = current
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
