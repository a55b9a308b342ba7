// Package plotting overlays the trend curves of all the groups in a
// single figure.
package plotting

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/op/go-logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var log = logging.MustGetLogger("plotting")

const (
	// DefaultDPI is the resolution of the saved figures.
	DefaultDPI = 400
	// LineWidth is the width of the curves in points.
	LineWidth = 2
	// TitleSize is the title font size in points.
	TitleSize = 14
)

// Figure size.
var (
	Width  = 12 * vg.Inch
	Height = 8 * vg.Inch
)

// Tab10 is the default qualitative palette.
var Tab10 = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	color.RGBA{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	color.RGBA{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// Black is the colour of the last group.
var Black color.Color = color.Black

// Dotted is the dash pattern of the control groups.
var Dotted = []vg.Length{vg.Points(2), vg.Points(3)}

// Line is the curve of a single group. Index is the position of the
// group in the study.
type Line struct {
	Index   int
	Group   string
	Title   string
	Control bool
	Curve   plotter.XYer
}

// Figure holds the labels of a figure. Groups is the number of groups
// in the study, the number of lines if zero.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Groups int
}

// Style returns the line style of the i-th of n groups: palette colour
// by index, black for the last group, dotted for controls.
func Style(i, n int, control bool) draw.LineStyle {
	s := draw.LineStyle{
		Color: Tab10[i%len(Tab10)],
		Width: vg.Points(LineWidth),
	}
	if i == n-1 {
		s.Color = Black
	}
	if control {
		s.Dashes = Dotted
	}
	return s
}

// MonthTicks returns the x ticks -58, -52, ..., -4.
func MonthTicks() []plot.Tick {
	var ticks []plot.Tick
	for m := -58; m < -1; m += 6 {
		ticks = append(ticks, plot.Tick{Value: float64(m), Label: strconv.Itoa(m)})
	}
	return ticks
}

// Compose draws all the lines in a single plot in the given order. Lines
// are styled by their Index.
func Compose(fig Figure, lines []Line) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	p.Title.TextStyle.Font.Size = vg.Points(TitleSize)
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.X.Tick.Marker = plot.ConstantTicks(MonthTicks())

	grid := plotter.NewGrid()
	gridColor := color.Gray{Y: 0xb0}
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal.Dashes = grid.Vertical.Dashes
	p.Add(grid)

	n := fig.Groups
	if n == 0 {
		n = len(lines)
	}
	p.Legend.Top = true
	p.Legend.Add("Groups")
	for _, l := range lines {
		pl, err := plotter.NewLine(l.Curve)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Group, err)
		}
		pl.LineStyle = Style(l.Index, n, l.Control)
		p.Add(pl)
		title := l.Title
		if title == "" {
			title = l.Group
		}
		p.Legend.Add(title, pl)
	}
	return p, nil
}

// Save writes the plot as PNG with the given resolution, creating the
// directory if needed.
func Save(p *plot.Plot, path string, dpi int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	c := vgimg.NewWith(vgimg.UseWH(Width, Height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Infof("Saved %s", path)
	return nil
}

// OutputPath returns <dir>/<test>_<suffix>_all_groups.png.
func OutputPath(dir, test, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_all_groups.png", test, suffix))
}
