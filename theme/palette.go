package theme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

type RGB [3]uint8

// Hex formats the color for lipgloss
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Palette is an ordered list of colors sampled by position
type Palette struct {
	Name   string
	Colors []RGB
}

// ParseGPL reads a GIMP palette. Lines that are not "R G B [name]" are skipped.
func ParseGPL(r io.Reader) (*Palette, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "GIMP Palette" {
		return nil, fault.New("missing GIMP Palette header", ftag.With(ftag.InvalidArgument))
	}

	p := &Palette{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			p.Name = strings.TrimSpace(name)
			continue
		}
		if c, ok := parseColor(line); ok {
			p.Colors = append(p.Colors, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(err)
	}
	if len(p.Colors) == 0 {
		return nil, fault.New("palette has no colors", ftag.With(ftag.InvalidArgument))
	}
	return p, nil
}

func parseColor(line string) (RGB, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return RGB{}, false
	}
	var c RGB
	for i := range c {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return RGB{}, false
		}
		c[i] = uint8(v)
	}
	return c, true
}

// LoadGPL reads the GIMP palette at path
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("open palette", fmt.Sprintf("cannot open palette %s", path)))
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("parse palette", fmt.Sprintf("%s is not a usable GIMP palette", path)))
	}
	return p, nil
}

// Plasma is the built-in palette, sampled from matplotlib's plasma map
func Plasma() *Palette {
	return &Palette{
		Name: "plasma",
		Colors: []RGB{
			{13, 8, 135},
			{75, 3, 161},
			{125, 3, 168},
			{168, 34, 150},
			{203, 70, 121},
			{229, 107, 93},
			{248, 148, 65},
			{253, 195, 40},
			{240, 249, 33},
		},
	}
}

// LoadOrDefault loads the GPL palette at path, falling back to Plasma when
// path is empty. A path that fails to load is reported alongside the fallback.
func LoadOrDefault(path string) (*Palette, error) {
	if path == "" {
		return Plasma(), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return Plasma(), err
	}
	return p, nil
}

// At blends the two colors either side of position v in [0, 1]
func (p *Palette) At(v float64) RGB {
	last := len(p.Colors) - 1
	switch {
	case v <= 0 || last == 0:
		return p.Colors[0]
	case v >= 1:
		return p.Colors[last]
	}

	pos := v * float64(last)
	i := int(pos)
	frac := pos - float64(i)

	var out RGB
	for ch := range out {
		a, b := float64(p.Colors[i][ch]), float64(p.Colors[i+1][ch])
		out[ch] = uint8(a + (b-a)*frac)
	}
	return out
}
