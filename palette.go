package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

type PalettePolicy int

const (
	PolicyHashed PalettePolicy = iota
	PolicyRandom
)

const (
	paletteStride           = 37
	defaultDistinctness     = 100.0
	defaultWhiteness        = 100.0
	defaultMaxColorAttempts = 1000
	// Once the cube is full, later ids only need to clear the whiteness
	// threshold and get this many draws.
	saturatedAttempts = 16
)

var white = colorful.Color{R: 1, G: 1, B: 1}

var whitePoint = []float64{255, 255, 255}

func ParsePalettePolicy(s string) (PalettePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hashed", "hash":
		return PolicyHashed, nil
	case "random":
		return PolicyRandom, nil
	}
	return PolicyHashed, fmt.Errorf("unknown palette policy %q (valid: hashed, random)", s)
}

func (p PalettePolicy) String() string {
	if p == PolicyRandom {
		return "random"
	}
	return "hashed"
}

type PaletteOptions struct {
	Policy       PalettePolicy
	Distinctness float64
	Whiteness    float64
	MaxAttempts  int
	Rand         *rand.Rand
}

// Palette hands out one color per cluster id and remembers it until Reset.
type Palette struct {
	opts     PaletteOptions
	colors   []colorful.Color
	assigned map[ClusterID]colorful.Color
	logger   *slog.Logger

	// generated holds random colors on the 0-255 scale; candidate is
	// scratch space for the color being tested.
	generated [][]float64
	candidate []float64
	saturated bool
}

func NewPalette(opts PaletteOptions, logger *slog.Logger) *Palette {
	if opts.Distinctness <= 0 {
		opts.Distinctness = defaultDistinctness
	}
	if opts.Whiteness <= 0 {
		opts.Whiteness = defaultWhiteness
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxColorAttempts
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Palette{
		opts:     opts,
		assigned:  make(map[ClusterID]colorful.Color),
		logger:    logger,
		candidate: make([]float64, 3),
	}
}

// SetColors installs the ordered candidate list used by the hashed policy.
// Colors already handed out keep their assignment.
func (p *Palette) SetColors(colors []colorful.Color) {
	p.colors = colors
}

func (p *Palette) Len() int {
	return len(p.colors)
}

// ColorFor returns the memoised color for id, assigning one on first use.
// Without a loaded palette the hashed policy falls back to random colors.
func (p *Palette) ColorFor(id ClusterID) colorful.Color {
	if c, ok := p.assigned[id]; ok {
		return c
	}
	var c colorful.Color
	if p.opts.Policy == PolicyHashed && len(p.colors) > 0 {
		c = p.colors[hashIndex(id.paletteKey(), len(p.colors))]
	} else {
		c = p.randomColor()
	}
	p.assigned[id] = c
	return c
}

// Reset forgets every assignment. The loaded palette stays.
func (p *Palette) Reset() {
	p.assigned = make(map[ClusterID]colorful.Color)
	p.generated = p.generated[:0]
	p.saturated = false
}

// Saturated reports whether random colors have stopped checking
// distinctness since the last Reset.
func (p *Palette) Saturated() bool {
	return p.saturated
}

func hashIndex(id int64, n int) int {
	i := (id * paletteStride) % int64(n)
	if i < 0 {
		i += int64(n)
	}
	return int(i)
}

// randomColor draws 24-bit colors until one clears both the whiteness and
// the distinctness thresholds. The first call that runs out of attempts
// marks the palette saturated; from then on colors only have to clear the
// whiteness threshold.
func (p *Palette) randomColor() colorful.Color {
	if p.saturated {
		return p.whiteSafeColor()
	}
	var best colorful.Color
	bestClearance := math.Inf(-1)
	for attempt := 0; attempt < p.opts.MaxAttempts; attempt++ {
		c := p.draw()
		clearance := p.clearance()
		if clearance > 0 {
			p.keep()
			return c
		}
		if clearance > bestClearance {
			best, bestClearance = c, clearance
		}
	}
	p.saturated = true
	if p.logger != nil {
		p.logger.Warn("color space saturated, distinctness no longer enforced",
			"attempts", p.opts.MaxAttempts,
			"assigned", len(p.generated),
			"color", best.Hex())
	}
	return best
}

func (p *Palette) whiteSafeColor() colorful.Color {
	var best colorful.Color
	bestMargin := math.Inf(-1)
	for attempt := 0; attempt < saturatedAttempts; attempt++ {
		c := p.draw()
		margin := floats.Distance(p.candidate, whitePoint, 2) - p.opts.Whiteness
		if margin > 0 {
			return c
		}
		if margin > bestMargin {
			best, bestMargin = c, margin
		}
	}
	return best
}

// draw picks a uniform 24-bit color and leaves its channels in candidate.
func (p *Palette) draw() colorful.Color {
	v := p.opts.Rand.Intn(1 << 24)
	p.candidate[0] = float64(v >> 16 & 0xff)
	p.candidate[1] = float64(v >> 8 & 0xff)
	p.candidate[2] = float64(v & 0xff)
	return colorful.Color{
		R: p.candidate[0] / 255,
		G: p.candidate[1] / 255,
		B: p.candidate[2] / 255,
	}
}

func (p *Palette) keep() {
	p.generated = append(p.generated, []float64{p.candidate[0], p.candidate[1], p.candidate[2]})
}

// clearance is the smallest margin by which candidate beats a threshold;
// positive means it is acceptable.
func (p *Palette) clearance() float64 {
	margin := floats.Distance(p.candidate, whitePoint, 2) - p.opts.Whiteness
	for _, other := range p.generated {
		if d := floats.Distance(p.candidate, other, 2) - p.opts.Distinctness; d < margin {
			margin = d
		}
	}
	return margin
}

// LoadPalette reads one hex color per line. Blank lines are skipped and
// CSV-style quotes or trailing commas are tolerated.
func LoadPalette(r io.Reader) ([]colorful.Color, error) {
	var colors []colorful.Color
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		token := strings.TrimSpace(scanner.Text())
		token = strings.Trim(token, `",`)
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !strings.HasPrefix(token, "#") {
			token = "#" + token
		}
		c, err := colorful.Hex(token)
		if err != nil {
			return nil, fmt.Errorf("palette line %d: %q: %w", lineNo, token, err)
		}
		colors = append(colors, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return colors, nil
}
