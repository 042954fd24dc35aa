package astro

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gocarina/gocsv"
)

//go:embed stars.csv
var starsCSV []byte

// Star represents a cataloged star with position and brightness.
type Star struct {
	Name   string  `csv:"name"`    // Common name (e.g., "Sirius", "Vega")
	RAdeg  float64 `csv:"ra_deg"`  // Right Ascension in degrees (J2000)
	DecDeg float64 `csv:"dec_deg"` // Declination in degrees (J2000)
	Mag    float64 `csv:"mag"`     // Apparent visual magnitude (lower = brighter)
}

// RAHours returns the star's right ascension in hours.
func (s Star) RAHours() float64 {
	return s.RAdeg / 15
}

// StarCatalog holds a collection of stars for rendering.
type StarCatalog struct {
	Stars []Star
}

var (
	defaultOnce  sync.Once
	defaultStars []Star
)

// DefaultStarCatalog returns the embedded catalog of bright stars
// (mag < 5.0), ordered roughly by magnitude, brightest first.
// Coordinates are J2000 epoch, sourced from the Yale Bright Star Catalog
// and IAU star names.
func DefaultStarCatalog() StarCatalog {
	defaultOnce.Do(func() {
		stars, err := ParseStarCatalog(starsCSV)
		if err != nil {
			panic(fmt.Sprintf("embedded star catalog: %v", err))
		}
		defaultStars = stars
	})

	stars := make([]Star, len(defaultStars))
	copy(stars, defaultStars)
	return StarCatalog{Stars: stars}
}

// ParseStarCatalog reads a CSV catalog with name, ra_deg, dec_deg and mag
// columns.
func ParseStarCatalog(data []byte) ([]Star, error) {
	var stars []Star
	if err := gocsv.UnmarshalBytes(data, &stars); err != nil {
		return nil, fmt.Errorf("parse star catalog: %w", err)
	}
	return stars, nil
}

// Brighter returns the stars at or brighter than the magnitude limit, in
// catalog order.
func (c StarCatalog) Brighter(maxMag float64) []Star {
	var out []Star
	for _, s := range c.Stars {
		if s.Mag <= maxMag {
			out = append(out, s)
		}
	}
	return out
}
