package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"

	"Mansoor88-6/macro-plus/internal/service"
)

const iconSize = 16

var stateColors = map[service.State]color.NRGBA{
	service.StateIdle:      {R: 0x60, G: 0x60, B: 0x60, A: 0xff},
	service.StateRecording: {R: 0xd0, G: 0x20, B: 0x20, A: 0xff},
	service.StatePlaying:   {R: 0x20, G: 0xa0, B: 0x40, A: 0xff},
}

// iconFor returns a filled dot in the state's colour, encoded the way the
// tray backend of the current OS expects (ICO on windows, PNG elsewhere)
func iconFor(state service.State) []byte {
	img := dot(stateColors[state])
	if runtime.GOOS == "windows" {
		return encodeICO(img)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func dot(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	r := float64(iconSize)/2 - 1
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx := float64(x) + 0.5 - float64(iconSize)/2
			dy := float64(y) + 0.5 - float64(iconSize)/2
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// encodeICO wraps a 32-bit BGRA bitmap in a single-image ICO container
func encodeICO(img *image.NRGBA) []byte {
	const headerSize = 6 + 16
	const infoSize = 40
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pixels := w * h * 4
	maskStride := ((w + 31) / 32) * 4
	mask := maskStride * h
	imageSize := infoSize + pixels + mask

	var buf bytes.Buffer
	le := binary.LittleEndian

	// ICONDIR
	binary.Write(&buf, le, uint16(0))
	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, uint16(1))
	// ICONDIRENTRY
	buf.WriteByte(byte(w))
	buf.WriteByte(byte(h))
	buf.WriteByte(0)
	buf.WriteByte(0)
	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, uint16(32))
	binary.Write(&buf, le, uint32(imageSize))
	binary.Write(&buf, le, uint32(headerSize))
	// BITMAPINFOHEADER, height doubled for the AND mask
	binary.Write(&buf, le, uint32(infoSize))
	binary.Write(&buf, le, int32(w))
	binary.Write(&buf, le, int32(h*2))
	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, uint16(32))
	binary.Write(&buf, le, uint32(0))
	binary.Write(&buf, le, uint32(pixels+mask))
	binary.Write(&buf, le, [4]uint32{})

	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			c := img.NRGBAAt(x, y)
			buf.Write([]byte{c.B, c.G, c.R, c.A})
		}
	}
	buf.Write(make([]byte, mask))
	return buf.Bytes()
}
