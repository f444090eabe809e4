// Package chart describes dashboard charts in a renderer-neutral form. The
// page draws them client side; the API returns them as JSON.
package chart

// Type is the kind of chart to draw.
type Type string

// Chart types.
const (
	TypePie           Type = "pie"
	TypeDonut         Type = "donut"
	TypeBar           Type = "bar"
	TypeHorizontalBar Type = "horizontal_bar"
	TypeArea          Type = "area"
	TypeLine          Type = "line"
	TypeHistogram     Type = "histogram"
)

// Netflix colours. Series beyond the first two cycle through the neutrals.
const (
	ColorRed  = "#E50914"
	ColorGrey = "#564d4d"
)

var palette = []string{
	ColorRed, ColorGrey, "#B81D24", "#831010", "#8C8C8C", "#F5F5F1", "#221F1F",
}

// Config defines how to render a chart.
type Config struct {
	ID          string       `json:"id"`
	Type        Type         `json:"type"`
	Title       string       `json:"title"`
	XAxis       string       `json:"x_axis,omitempty"`
	YAxis       string       `json:"y_axis,omitempty"`
	Series      []Series     `json:"series"`
	Annotations []Annotation `json:"annotations,omitempty"`
	ShowLegend  bool         `json:"show_legend"`
	ShowGrid    bool         `json:"show_grid"`
}

// Series is one named run of points.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point is a labelled value. For histograms Label is the bin start and
// Width the bin width.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Width float64 `json:"width,omitempty"`
}

// Annotation marks a value on an axis, such as a median line.
type Annotation struct {
	Axis  string  `json:"axis"` // "x" or "y"
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// IsEmpty reports whether no series has a point.
func (c *Config) IsEmpty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// Builder assembles a Config.
type Builder struct {
	cfg Config
}

// New starts a chart.
func New(id string, typ Type, title string) *Builder {
	return &Builder{cfg: Config{
		ID:         id,
		Type:       typ,
		Title:      title,
		Series:     []Series{},
		ShowLegend: typ == TypePie || typ == TypeDonut,
		ShowGrid:   typ != TypePie && typ != TypeDonut,
	}}
}

// Axes sets the axis titles.
func (b *Builder) Axes(x, y string) *Builder {
	b.cfg.XAxis = x
	b.cfg.YAxis = y
	return b
}

// Legend overrides the default legend visibility.
func (b *Builder) Legend(show bool) *Builder {
	b.cfg.ShowLegend = show
	return b
}

// Series appends a series coloured from the palette.
func (b *Builder) Series(name string, points []Point) *Builder {
	if points == nil {
		points = []Point{}
	}
	color := palette[len(b.cfg.Series)%len(palette)]
	b.cfg.Series = append(b.cfg.Series, Series{Name: name, Color: color, Points: points})
	return b
}

// Annotate adds a marker line.
func (b *Builder) Annotate(axis string, value float64, label string) *Builder {
	b.cfg.Annotations = append(b.cfg.Annotations, Annotation{Axis: axis, Value: value, Label: label})
	return b
}

// Build returns the finished chart.
func (b *Builder) Build() *Config {
	cfg := b.cfg
	return &cfg
}

// Colors returns the palette colour for the i-th series.
func Colors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}
