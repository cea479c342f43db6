package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/encoding"
	"github.com/bodgit/kolor/quantize"
	"github.com/bodgit/kolor/swizzle"
	"github.com/urfave/cli/v2"
)

var (
	errBadSize      = errors.New("invalid size")
	errBadSwizzle   = errors.New("invalid swizzle")
	errBadPadding   = errors.New("invalid padding")
	errBadQuantizer = errors.New("invalid quantizer")
)

// parseSize parses WxH
func parseSize(s string) (kolor.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return kolor.Size{}, fmt.Errorf("%w: %q", errBadSize, s)
	}

	width, err := strconv.Atoi(w)
	if err != nil || width < 1 {
		return kolor.Size{}, fmt.Errorf("%w: %q", errBadSize, s)
	}

	height, err := strconv.Atoi(h)
	if err != nil || height < 1 {
		return kolor.Size{}, fmt.Errorf("%w: %q", errBadSize, s)
	}

	return kolor.Size{Width: width, Height: height}, nil
}

// parseSwizzle accepts "", linear, megasd, tiled:WxH or zorder:N
func parseSwizzle(s string) (kolor.SwizzleFormat, error) {
	name, arg, _ := strings.Cut(s, ":")
	switch name {
	case "", "none":
		return nil, nil
	case "linear":
		return swizzle.Linear{}, nil
	case "megasd":
		return swizzle.MegaSD, nil
	case "tiled":
		size, err := parseSize(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadSwizzle, err)
		}
		return swizzle.Tiled{Width: size.Width, Height: size.Height}, nil
	case "zorder":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n&(n-1) != 0 {
			return nil, fmt.Errorf("%w: %q", errBadSwizzle, s)
		}
		return swizzle.ZOrder{Size: n}, nil
	}
	return nil, fmt.Errorf("%w: %q", errBadSwizzle, s)
}

// parsePadding accepts "", multiple:WxH, pow2 or pow2-width
func parsePadding(s string) (kolor.Padder, error) {
	name, arg, _ := strings.Cut(s, ":")
	switch name {
	case "", "none":
		return nil, nil
	case "multiple":
		size, err := parseSize(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadPadding, err)
		}
		return kolor.PadToMultiple(size.Width, size.Height), nil
	case "pow2":
		return kolor.PadToPowerOfTwo(), nil
	case "pow2-width":
		return kolor.PadWidthToPowerOfTwo(), nil
	}
	return nil, fmt.Errorf("%w: %q", errBadPadding, s)
}

func parseQuantizer(s string, colors int) (kolor.Quantizer, error) {
	switch s {
	case "":
		return nil, nil
	case "exact":
		return quantize.Exact{MaxColors: colors}, nil
	case "reduce":
		return quantize.Reduce{MaxColors: colors}, nil
	case "mediancut":
		return quantize.MedianCut{MaxColors: colors}, nil
	case "colorquant":
		return quantize.ColorQuant{MaxColors: colors}, nil
	}
	return nil, fmt.Errorf("%w: %q", errBadQuantizer, s)
}

var transcoderFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		EnvVars: []string{"KOLOR_FORMAT"},
		Value:   "rgba8888",
		Usage:   "color format for direct mode",
	},
	&cli.StringFlag{
		Name:    "index-format",
		EnvVars: []string{"KOLOR_INDEX_FORMAT"},
		Usage:   "index format, selects indexed mode",
	},
	&cli.StringFlag{
		Name:    "palette-format",
		EnvVars: []string{"KOLOR_PALETTE_FORMAT"},
		Value:   "rgba8888",
		Usage:   "palette format for indexed mode",
	},
	&cli.StringFlag{
		Name:    "quantizer",
		Aliases: []string{"q"},
		EnvVars: []string{"KOLOR_QUANTIZER"},
		Usage:   "quantizer: exact, reduce, mediancut or colorquant",
	},
	&cli.IntFlag{
		Name:    "colors",
		EnvVars: []string{"KOLOR_COLORS"},
		Usage:   "maximum palette size, defaults to what the index format can address",
	},
	&cli.StringFlag{
		Name:    "swizzle",
		EnvVars: []string{"KOLOR_SWIZZLE"},
		Usage:   "swizzle: linear, megasd, tiled:WxH or zorder:N",
	},
	&cli.StringFlag{
		Name:    "pad",
		EnvVars: []string{"KOLOR_PAD"},
		Usage:   "padding: multiple:WxH, pow2 or pow2-width",
	},
}

// newTranscoder builds a Transcoder from the transcoder flags
func newTranscoder(c *cli.Context) (*kolor.Transcoder, error) {
	var options []kolor.Option

	if n := c.Int("parallel"); n > 0 {
		options = append(options, kolor.WithParallelism(n))
	}

	s, err := parseSwizzle(c.String("swizzle"))
	if err != nil {
		return nil, err
	}
	if s != nil {
		options = append(options, kolor.WithSwizzle(s))
	}

	p, err := parsePadding(c.String("pad"))
	if err != nil {
		return nil, err
	}
	if p != nil {
		options = append(options, kolor.WithPadding(p))
	}

	colors := c.Int("colors")

	if name := c.String("index-format"); name != "" {
		idx, err := encoding.LookupIndex(name)
		if err != nil {
			return nil, err
		}
		pal, err := encoding.LookupPalette(c.String("palette-format"))
		if err != nil {
			return nil, err
		}

		if colors == 0 {
			if f, ok := idx.(encoding.Format); ok {
				colors = 1 << f.BitsPerValue()
			}
		}

		name := c.String("quantizer")
		if name == "" {
			name = "reduce"
		}
		q, err := parseQuantizer(name, colors)
		if err != nil {
			return nil, err
		}

		return kolor.NewIndexed(idx, pal, q, options...)
	}

	f, err := encoding.LookupColor(c.String("format"))
	if err != nil {
		return nil, err
	}

	if colors == 0 {
		colors = 256
	}
	q, err := parseQuantizer(c.String("quantizer"), colors)
	if err != nil {
		return nil, err
	}
	if q != nil {
		options = append(options, kolor.WithQuantizer(q))
	}

	return kolor.NewColor(f, options...)
}
