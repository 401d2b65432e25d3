package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

// dotPixels is the side of the square each braille dot occupies in a recording.
const (
	dotPixels = 2
	maxFrames = 1800
)

var recordPalette = color.Palette{color.Black, color.RGBA{0, 255, 255, 255}}

var errNoFrames = errors.New("viz: nothing recorded")

type recorder struct {
	frames []*image.Paletted
}

func newRecorder() *recorder {
	return &recorder{}
}

func (r *recorder) capture(c *Canvas) {
	if len(r.frames) >= maxFrames {
		return
	}
	w, h := c.DotWidth(), c.DotHeight()
	img := image.NewPaletted(image.Rect(0, 0, w*dotPixels, h*dotPixels), recordPalette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotPixels; py++ {
				for px := 0; px < dotPixels; px++ {
					img.SetColorIndex(x*dotPixels+px, y*dotPixels+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *recorder) len() int { return len(r.frames) }

func (r *recorder) save(path string) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
