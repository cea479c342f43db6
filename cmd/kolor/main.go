package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/bodgit/kolor"
	"github.com/bodgit/kolor/encoding"
	"github.com/bodgit/kolor/progress"
	"github.com/nfnt/resize"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

// watch logs the progress of s every interval until the returned function
// is called
func watch(logger *zap.Logger, s *progress.Scope, interval time.Duration) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})
	var once sync.Once

	go func() {
		defer close(stopped)

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-done:
				logger.Info("progress", zap.Float64("fraction", s.Fraction()))
				return
			case <-t.C:
				logger.Info("progress", zap.Float64("fraction", s.Fraction()))
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(done)
			<-stopped
		})
	}
}

// setup creates the logger, the transcoder and, with --progress, a scope
// that is logged while the command runs
func setup(c *cli.Context) (*zap.Logger, *kolor.Transcoder, progress.Context, func(), error) {
	logger, err := newLogger(c.Bool("verbose"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	kolor.SetLogger(logger)

	t, err := newTranscoder(c)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if !c.Bool("progress") {
		return logger, t, progress.Nop, func() {}, nil
	}

	s := progress.New()
	return logger, t, s, watch(logger, s, c.Duration("progress-interval")), nil
}

func encode(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger, t, p, stop, err := setup(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer logger.Sync() //nolint:errcheck
	defer stop()

	m, err := readImage(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	if r := c.String("resize"); r != "" {
		size, err := parseSize(r)
		if err != nil {
			return cli.Exit(err, 1)
		}
		m = resize.Resize(uint(size.Width), uint(size.Height), m, resize.Lanczos3)
	}
	m = kolor.Copy(m)

	logger.Debug("encoding", zap.Stringer("size", kolor.SizeOf(m.Bounds())), zap.Stringer("mode", t.Mode()))

	if t.Indexed() {
		if c.String("palette") == "" {
			return cli.Exit("indexed mode requires --palette", 1)
		}

		data, paletteData, err := t.EncodeIndexed(m, p)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := writeFile(c.String("palette"), paletteData); err != nil {
			return cli.Exit(err, 1)
		}
		if err := writeFile(c.Args().Get(1), data); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}

	data, err := t.Encode(m, p)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if err := writeFile(c.Args().Get(1), data); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func decode(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	size := kolor.Size{Width: c.Int("width"), Height: c.Int("height")}
	if size.Width < 1 || size.Height < 1 {
		return cli.Exit(fmt.Errorf("%w: %s", errBadSize, size), 1)
	}

	logger, t, p, stop, err := setup(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer logger.Sync() //nolint:errcheck
	defer stop()

	data, err := readFile(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}

	var m image.Image
	if t.Indexed() {
		if c.String("palette") == "" {
			return cli.Exit("indexed mode requires --palette", 1)
		}

		paletteData, err := readFile(c.String("palette"))
		if err != nil {
			return cli.Exit(err, 1)
		}

		m, err = t.DecodeIndexed(data, paletteData, size, p)
		if err != nil {
			return cli.Exit(err, 1)
		}
	} else {
		m, err = t.Decode(data, size, p)
		if err != nil {
			return cli.Exit(err, 1)
		}
	}

	if err := writeImage(c.Args().Get(1), m); err != nil {
		return cli.Exit(err, 1)
	}

	return nil
}

func formats(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBITS\tCOLORS\tCOLOR\tPALETTE\tINDEX")
	for _, f := range encoding.Formats() {
		_, color := f.(kolor.ColorFormat)
		_, palette := f.(kolor.PaletteFormat)
		_, index := f.(kolor.IndexFormat)
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n", f.Name(), f.BitsPerValue(), f.ColorsPerValue(), yes(color), yes(palette), yes(index))
	}
	return w.Flush()
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "kolor"
	app.Usage = "Convert images to and from raw texture data"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{"KOLOR_VERBOSE"},
			Usage:   "increase verbosity",
		},
		&cli.IntFlag{
			Name:    "parallel",
			Aliases: []string{"j"},
			EnvVars: []string{"KOLOR_PARALLEL"},
			Usage:   "number of parallel tasks, defaults to the number of CPUs",
		},
		&cli.BoolFlag{
			Name:    "progress",
			EnvVars: []string{"KOLOR_PROGRESS"},
			Usage:   "log progress while transcoding",
		},
		&cli.DurationFlag{
			Name:  "progress-interval",
			Value: 500 * time.Millisecond,
			Usage: "how often progress is logged",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "encode",
			Usage:     "Encode an image into raw data",
			ArgsUsage: "IMAGE OUTPUT",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "palette",
					Usage: "write the palette to this file in indexed mode",
				},
				&cli.StringFlag{
					Name:  "resize",
					Usage: "resize the image to WxH before encoding",
				},
			}, transcoderFlags...),
			Action: encode,
		},
		{
			Name:      "decode",
			Usage:     "Decode raw data into a PNG image",
			ArgsUsage: "INPUT IMAGE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "palette",
					Usage: "read the palette from this file in indexed mode",
				},
				&cli.IntFlag{
					Name:     "width",
					Aliases:  []string{"W"},
					Required: true,
					Usage:    "image width",
				},
				&cli.IntFlag{
					Name:     "height",
					Aliases:  []string{"H"},
					Required: true,
					Usage:    "image height",
				},
			}, transcoderFlags...),
			Action: decode,
		},
		{
			Name:   "formats",
			Usage:  "List the available formats",
			Action: formats,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
