package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stepseq/tempo"
)

const gpl = `GIMP Palette
Name: mono
Columns: 2
# comment
  0   0   0	black
255 255 255	white
300 0 0	out of range
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))

	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
}

func TestParseGPL_Rejects(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("0 0 0\n"))
	assert.Equal(t, ftag.InvalidArgument, ftag.Get(err), "missing header")

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Equal(t, ftag.InvalidArgument, ftag.Get(err), "no colors")
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.gpl")
	require.NoError(t, os.WriteFile(path, []byte(gpl), 0644))

	p, err := LoadGPL(path)

	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "plasma", p.Name)

	p, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
	assert.Equal(t, "plasma", p.Name)
}

func TestPalette_At(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}

	assert.Equal(t, RGB{0, 0, 0}, p.At(-1))
	assert.Equal(t, RGB{200, 100, 50}, p.At(2))
	assert.Equal(t, RGB{100, 50, 25}, p.At(0.5))

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	assert.Equal(t, RGB{1, 2, 3}, single.At(0.5))
}

func TestTheme_Roles(t *testing.T) {
	th := New(&Palette{Colors: []RGB{{0, 0, 0}, {255, 255, 255}}})

	assert.Equal(t, lipgloss.Color("#ffffff"), th.Color(Highlight))
	assert.Equal(t, lipgloss.Color("#000000"), th.Gradient(0))
	assert.Equal(t, '●', th.Glyphs.On)
}

func TestTheme_State(t *testing.T) {
	th := New(&Palette{Colors: []RGB{{0, 0, 0}, {255, 255, 255}}})

	assert.Equal(t, th.Color(Highlight), th.State(tempo.Playing).GetForeground())
	assert.Equal(t, th.Color(Alert), th.State(tempo.Paused).GetForeground())
	assert.Equal(t, th.Color(Dim), th.State(tempo.Stopped).GetForeground())
	assert.True(t, th.State(tempo.Playing).GetBold())
}

func TestNew_NilPaletteUsesPlasma(t *testing.T) {
	th := New(nil)
	assert.Equal(t, "plasma", th.Palette.Name)
}
