package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
)

// ErrNoFrames is returned when saving a recording that captured nothing.
var ErrNoFrames = errors.New("no frames recorded")

const (
	charW, charH = 8, 16
	dotW, dotH   = charW / 2, charH / 4
)

// Recorder rasterizes canvas frames into a two-color animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int
}

// NewRecorder returns a recorder with delay hundredths of a second between
// frames.
func NewRecorder(delay int) *Recorder {
	return &Recorder{delay: delay}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture appends the current canvas as one frame.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), color.Palette{color.Black, color.White})
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Encode writes the recording as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
