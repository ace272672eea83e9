// Package region computes falloff weights for the fixed proportional face
// zones used by the cosmetic filters. Zones are static fractions of the
// image size; nothing here looks at pixel content.
package region

import (
	"fmt"
	"math"
	"sort"
)

// Spec describes a circular zone relative to the image. CenterX and CenterY
// are fractions of width and height; Radius is a fraction of width.
type Spec struct {
	CenterX float64 `json:"center_x" yaml:"center_x"`
	CenterY float64 `json:"center_y" yaml:"center_y"`
	Radius  float64 `json:"radius" yaml:"radius"`
}

// Center returns the zone center in pixel coordinates.
func (s Spec) Center(imgW, imgH int) (float64, float64) {
	return s.CenterX * float64(imgW), s.CenterY * float64(imgH)
}

// RadiusPx returns the zone radius in pixels.
func (s Spec) RadiusPx(imgW int) float64 {
	return s.Radius * float64(imgW)
}

// Weight returns the linear falloff of (x, y) for the zone: 1 at the
// center, 0 at and beyond the radius.
func (s Spec) Weight(x, y, imgW, imgH int) float64 {
	r := s.RadiusPx(imgW)
	if r <= 0 {
		return 0
	}
	cx, cy := s.Center(imgW, imgH)
	d := math.Hypot(float64(x)-cx, float64(y)-cy)
	return math.Max(0, 1-d/r)
}

// Weight is the functional form of Spec.Weight.
func Weight(x, y int, s Spec, imgW, imgH int) float64 {
	return s.Weight(x, y, imgW, imgH)
}

// Pair is a symmetric left/right pair of zones.
type Pair struct {
	Left  Spec
	Right Spec
}

// Weight returns the larger of the two single-zone weights so that
// overlapping fields near the centerline are not applied twice.
func (p Pair) Weight(x, y, imgW, imgH int) float64 {
	return math.Max(p.Left.Weight(x, y, imgW, imgH), p.Right.Weight(x, y, imgW, imgH))
}

// Named zones.
var (
	LeftEye    = Spec{CenterX: 0.40, CenterY: 0.35, Radius: 0.15}
	RightEye   = Spec{CenterX: 0.60, CenterY: 0.35, Radius: 0.15}
	LeftCheek  = Spec{CenterX: 0.32, CenterY: 0.50, Radius: 0.12}
	RightCheek = Spec{CenterX: 0.68, CenterY: 0.50, Radius: 0.12}
	Lips       = Spec{CenterX: 0.50, CenterY: 0.65, Radius: 0.08}
	LeftLid    = Spec{CenterX: 0.40, CenterY: 0.35, Radius: 0.10}
	RightLid   = Spec{CenterX: 0.60, CenterY: 0.35, Radius: 0.10}
)

// Symmetric pairs built from the named zones.
var (
	Eyes   = Pair{Left: LeftEye, Right: RightEye}
	Cheeks = Pair{Left: LeftCheek, Right: RightCheek}
	Lids   = Pair{Left: LeftLid, Right: RightLid}
)

var table = map[string]Spec{
	"leftEye":    LeftEye,
	"rightEye":   RightEye,
	"leftCheek":  LeftCheek,
	"rightCheek": RightCheek,
	"lips":       Lips,
	"leftLid":    LeftLid,
	"rightLid":   RightLid,
}

// Lookup returns the named zone.
func Lookup(name string) (Spec, error) {
	s, ok := table[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown region %q", name)
	}
	return s, nil
}

// Names returns the names of all zones in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
