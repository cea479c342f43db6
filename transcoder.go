package kolor

import (
	"fmt"
	"image"
	"image/color"
	"iter"
	"runtime"
	"slices"

	"github.com/bodgit/kolor/progress"
	"go.uber.org/zap"
)

// Mode selects which pipelines a Transcoder supports.
type Mode int

const (
	// ModeColor stores colors directly with a ColorEncoding.
	ModeColor Mode = iota
	// ModeIndexed stores palette indices with an IndexEncoding and the
	// palette itself with a PaletteEncoding.
	ModeIndexed
)

func (m Mode) String() string {
	switch m {
	case ModeColor:
		return "color"
	case ModeIndexed:
		return "indexed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Transcoder converts between raw bytes and images using the strategies it
// was constructed with. It holds no per-call state and is safe for
// concurrent use provided the strategies are.
type Transcoder struct {
	mode Mode

	colorFormat   ColorFormat
	indexFormat   IndexFormat
	paletteFormat PaletteFormat
	quantizer     Quantizer
	swizzle       SwizzleFormat
	padder        Padder

	parallelism int
}

// Option configures optional strategies of a Transcoder.
type Option func(*Transcoder) error

// WithQuantizer sets the quantizer. In color mode this makes Encode reduce
// the image to a palette before storing it.
func WithQuantizer(q Quantizer) Option {
	return func(t *Transcoder) error {
		t.quantizer = q
		return nil
	}
}

// WithSwizzle sets the swizzle used to order pixels in storage.
func WithSwizzle(s SwizzleFormat) Option {
	return func(t *Transcoder) error {
		t.swizzle = s
		return nil
	}
}

// WithPadding sets the padder used to compute the storage canvas size.
func WithPadding(p Padder) Option {
	return func(t *Transcoder) error {
		t.padder = p
		return nil
	}
}

// WithParallelism sets the number of tasks the encodings may use. It is
// passed through to every Load and Save call.
func WithParallelism(n int) Option {
	return func(t *Transcoder) error {
		if n < 1 {
			return ErrInvalidParallelism
		}
		t.parallelism = n
		return nil
	}
}

func newTranscoder(t *Transcoder, options []Option) (*Transcoder, error) {
	t.parallelism = runtime.GOMAXPROCS(0)
	for _, o := range options {
		if err := o(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewColor returns a Transcoder that stores colors directly using f.
func NewColor(f ColorFormat, options ...Option) (*Transcoder, error) {
	t, err := newTranscoder(&Transcoder{mode: ModeColor, colorFormat: f}, options)
	if err != nil {
		return nil, err
	}
	if t.colorFormat == nil {
		return nil, fmt.Errorf("%w: color format", ErrMissingCollaborator)
	}
	return t, nil
}

// NewIndexed returns a Transcoder that quantizes images with q and stores
// the indices using idx and the palette using pal.
func NewIndexed(idx IndexFormat, pal PaletteFormat, q Quantizer, options ...Option) (*Transcoder, error) {
	t, err := newTranscoder(&Transcoder{mode: ModeIndexed, indexFormat: idx, paletteFormat: pal, quantizer: q}, options)
	if err != nil {
		return nil, err
	}
	switch {
	case t.indexFormat == nil:
		return nil, fmt.Errorf("%w: index format", ErrMissingCollaborator)
	case t.paletteFormat == nil:
		return nil, fmt.Errorf("%w: palette format", ErrMissingCollaborator)
	case t.quantizer == nil:
		return nil, fmt.Errorf("%w: quantizer", ErrMissingCollaborator)
	}
	return t, nil
}

// Mode returns the mode t was constructed in.
func (t *Transcoder) Mode() Mode {
	return t.mode
}

// Indexed reports whether t is in indexed mode.
func (t *Transcoder) Indexed() bool {
	return t.mode == ModeIndexed
}

// Parallelism returns the task count passed to the encodings.
func (t *Transcoder) Parallelism() int {
	return t.parallelism
}

// canvas returns the storage size for an image of the given size
func (t *Transcoder) canvas(size Size) Size {
	if t.padder == nil {
		return size
	}
	if padded := t.padder.PaddedSize(size); !padded.IsEmpty() {
		return padded
	}
	return size
}

func (t *Transcoder) swizzleFor(size Size) Swizzle {
	if t.swizzle == nil {
		return nil
	}
	return t.swizzle.Swizzle(size)
}

// valueCount estimates how many values an encoding can decode from n bytes
func valueCount(n, bitsPerValue int) int64 {
	return int64(n) * 8 / int64(bitsPerValue)
}

// compose consumes exactly as many colors as canvas has points and builds
// the logical image from them
func (t *Transcoder) compose(seq iter.Seq[color.Color], size, canvas Size) *image.NRGBA {
	n := canvas.Points()
	colors := make([]color.Color, 0, n)
	if n > 0 {
		for c := range seq {
			colors = append(colors, c)
			if len(colors) == n {
				break
			}
		}
	}
	if len(colors) < n {
		Logger().Debug("short color sequence", zap.Int("want", n), zap.Int("got", len(colors)))
	}
	return ComposeImage(colors, size, canvas, t.swizzleFor(canvas))
}

// Decode decodes data holding an image of the given size stored with the
// color encoding of t. With a swizzle set, the k-th stored color is placed at
// the point p for which the swizzle maps p to the k-th position, undoing the
// scatter done by Encode.
func (t *Transcoder) Decode(data []byte, size Size, p progress.Context) (*image.NRGBA, error) {
	if t.mode != ModeColor {
		return nil, ErrWrongMode
	}
	p = progress.OrNop(p)

	canvas := t.canvas(size)
	enc := t.colorFormat.ColorEncoding(size)

	p.SetMaxValue(valueCount(len(data), enc.BitsPerValue()) * int64(enc.ColorsPerValue()))

	Logger().Debug("decode",
		zap.Stringer("size", size),
		zap.Stringer("canvas", canvas),
		zap.Int("bits_per_value", enc.BitsPerValue()),
		zap.Int("colors_per_value", enc.ColorsPerValue()),
		zap.Int("bytes", len(data)))

	seq, err := enc.Load(data, t.parallelism)
	if err != nil {
		return nil, fmt.Errorf("kolor: load colors: %w", err)
	}

	return t.compose(progress.Seq(seq, p), size, canvas), nil
}

// DecodeIndexed decodes data holding palette indices for an image of the
// given size, resolving them against the palette decoded from paletteData.
func (t *Transcoder) DecodeIndexed(data, paletteData []byte, size Size, p progress.Context) (*image.NRGBA, error) {
	if t.mode != ModeIndexed {
		return nil, ErrWrongMode
	}
	scopes := progress.OrNop(p).SplitIntoEvenScopes(2)

	canvas := t.canvas(size)

	palEnc := t.paletteFormat.PaletteEncoding()
	scopes[0].SetMaxValue(valueCount(len(paletteData), palEnc.BitsPerValue()) * int64(palEnc.ColorsPerValue()))

	palSeq, err := palEnc.Load(paletteData, t.parallelism)
	if err != nil {
		return nil, fmt.Errorf("kolor: load palette: %w", err)
	}
	palette := color.Palette(slices.Collect(progress.Seq(palSeq, scopes[0])))

	idxEnc := t.indexFormat.IndexEncoding(size)
	scopes[1].SetMaxValue(valueCount(len(data), idxEnc.BitsPerValue()) * int64(idxEnc.ColorsPerValue()))

	Logger().Debug("decode indexed",
		zap.Stringer("size", size),
		zap.Stringer("canvas", canvas),
		zap.Int("palette", len(palette)),
		zap.Int("bits_per_value", idxEnc.BitsPerValue()),
		zap.Int("bytes", len(data)))

	seq, err := idxEnc.Load(data, palette, t.parallelism)
	if err != nil {
		return nil, fmt.Errorf("kolor: load indices: %w", err)
	}

	return t.compose(progress.Seq(seq, scopes[1]), size, canvas), nil
}

// Encode encodes m with the color encoding of t. If a quantizer is
// configured the image is reduced to a palette first and the palette colors
// are stored in place of the originals.
func (t *Transcoder) Encode(m image.Image, p progress.Context) ([]byte, error) {
	if t.mode != ModeColor {
		return nil, ErrWrongMode
	}
	p = progress.OrNop(p)

	size := SizeOf(m.Bounds())
	canvas := t.canvas(size)

	var colors iter.Seq[color.Color]
	if t.quantizer != nil {
		scopes := p.SplitIntoEvenScopes(2)

		indices, palette, err := t.quantize(m, canvas, scopes[0])
		if err != nil {
			return nil, err
		}

		scopes[1].SetMaxValue(int64(canvas.Points()))
		colors = progress.Seq(lookup(indices, palette), scopes[1])
	} else {
		p.SetMaxValue(int64(canvas.Points()))
		colors = progress.Seq(slices.Values(DecomposeSwizzled(m, canvas, t.swizzleFor(canvas))), p)
	}

	// The encoding is created for the unpadded size even though the colors
	// cover the padded canvas.
	// TODO Block compressed encodings that depend on the size should be
	// given the canvas here.
	enc := t.colorFormat.ColorEncoding(size)

	Logger().Debug("encode",
		zap.Stringer("size", size),
		zap.Stringer("canvas", canvas),
		zap.Bool("quantized", t.quantizer != nil),
		zap.Int("bits_per_value", enc.BitsPerValue()))

	data, err := enc.Save(colors, t.parallelism)
	if err != nil {
		return nil, fmt.Errorf("kolor: save colors: %w", err)
	}
	return data, nil
}

// EncodeIndexed quantizes m and encodes the indices and the palette,
// returning them separately.
func (t *Transcoder) EncodeIndexed(m image.Image, p progress.Context) ([]byte, []byte, error) {
	if t.mode != ModeIndexed {
		return nil, nil, ErrWrongMode
	}

	size := SizeOf(m.Bounds())
	canvas := t.canvas(size)

	indices, palette, err := t.quantize(m, canvas, progress.OrNop(p))
	if err != nil {
		return nil, nil, err
	}

	Logger().Debug("encode indexed",
		zap.Stringer("size", size),
		zap.Stringer("canvas", canvas),
		zap.Int("palette", len(palette)))

	paletteData, err := t.paletteFormat.PaletteEncoding().Save(slices.Values([]color.Color(palette)), t.parallelism)
	if err != nil {
		return nil, nil, fmt.Errorf("kolor: save palette: %w", err)
	}

	data, err := t.indexFormat.IndexEncoding(canvas).Save(slices.Values(indices), palette, t.parallelism)
	if err != nil {
		return nil, nil, fmt.Errorf("kolor: save indices: %w", err)
	}

	return data, paletteData, nil
}

// Quantize reduces m to a palette with the configured quantizer. The indices
// are returned in storage order, that is already reordered by the swizzle.
func (t *Transcoder) Quantize(m image.Image, p progress.Context) ([]int, color.Palette, error) {
	if t.quantizer == nil {
		return nil, nil, ErrNoQuantizer
	}
	return t.quantize(m, t.canvas(SizeOf(m.Bounds())), progress.OrNop(p))
}

func (t *Transcoder) quantize(m image.Image, canvas Size, p progress.Context) ([]int, color.Palette, error) {
	indices, palette, err := t.quantizer.Process(slices.Values(DecomposeImage(m, canvas)), canvas, p)
	if err != nil {
		return nil, nil, fmt.Errorf("kolor: quantize: %w", err)
	}

	for _, i := range indices {
		if i < 0 || i >= len(palette) {
			return nil, nil, fmt.Errorf("%w: %d of %d", ErrPaletteIndex, i, len(palette))
		}
	}

	return SwizzleIndices(indices, canvas, t.swizzleFor(canvas)), palette, nil
}

func lookup(indices []int, palette color.Palette) iter.Seq[color.Color] {
	return func(yield func(color.Color) bool) {
		for _, i := range indices {
			if !yield(palette[i]) {
				return
			}
		}
	}
}
