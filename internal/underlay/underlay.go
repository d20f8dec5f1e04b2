// Package underlay loads raster plan images shown behind the vector drawing.
package underlay

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"planview/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Underlay is a raster plan image rendered behind the vector primitives. It
// carries no snap candidates; only the vector drawing is snappable.
type Underlay struct {
	Path    string
	Image   image.Image
	DPI     float64 // from TIFF metadata, 0 when unknown
	Visible bool
	Opacity float64 // 0..1

	// Placement in world units. Origin is the world position of the
	// image's bottom-left corner; Scale is world units per pixel. The
	// image's top row renders at the top of the world rect.
	Origin geometry.Point2D
	Scale  float64
}

// Load loads a raster image for use as an underlay. TIFF resolution metadata
// is read when present so scanned plans can get a sensible default scale.
func Load(path string) (*Underlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open underlay: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode underlay: %w", err)
	}

	u := &Underlay{
		Path:    path,
		Image:   img,
		Visible: true,
		Opacity: 1,
		Scale:   1,
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tiff", ".tif":
		if dpi, err := tiffDPI(path); err == nil {
			u.DPI = dpi
		}
	}

	return u, nil
}

// Width returns the image width in pixels.
func (u *Underlay) Width() int {
	if u.Image == nil {
		return 0
	}
	return u.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (u *Underlay) Height() int {
	if u.Image == nil {
		return 0
	}
	return u.Image.Bounds().Dy()
}

// WorldBounds returns the rectangle the image covers in world units.
func (u *Underlay) WorldBounds() geometry.Rect {
	w := float64(u.Width()) * u.Scale
	h := float64(u.Height()) * u.Scale
	return geometry.NewRect(u.Origin.X, u.Origin.Y, w, h)
}

// SupportedFormats returns the accepted underlay file extensions.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// tiffDPI reads the XResolution/YResolution tags from a TIFF header. The
// stdlib decoder discards them, so the IFD is walked directly.
func tiffDPI(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header := make([]byte, 8)
	if _, err := f.Read(header); err != nil {
		return 0, err
	}

	var order binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		order = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a TIFF file")
	}

	if _, err := f.Seek(int64(order.Uint32(header[4:8])), 0); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(f, order, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var unit uint16 = 2 // inches

	entry := make([]byte, 12)
	for i := uint16(0); i < numEntries; i++ {
		if _, err := f.Read(entry); err != nil {
			return 0, err
		}

		tag := order.Uint16(entry[0:2])
		fieldType := order.Uint16(entry[2:4])
		value := order.Uint32(entry[8:12])

		switch tag {
		case 282: // XResolution
			if fieldType == 5 {
				xRes = readRational(f, int64(value), order)
			}
		case 283: // YResolution
			if fieldType == 5 {
				yRes = readRational(f, int64(value), order)
			}
		case 296: // ResolutionUnit
			if fieldType == 3 {
				unit = uint16(value)
			}
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if unit == 3 { // resolution is per centimeter
		dpi *= 2.54
	}
	if dpi == 0 {
		return 0, fmt.Errorf("no resolution tags")
	}
	return dpi, nil
}

func readRational(f *os.File, offset int64, order binary.ByteOrder) float64 {
	pos, _ := f.Seek(0, 1)
	defer f.Seek(pos, 0)

	f.Seek(offset, 0)
	var num, denom uint32
	binary.Read(f, order, &num)
	binary.Read(f, order, &denom)

	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
