package catalog

// RatingBand is the display colour band for a rating badge
type RatingBand struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var (
	BandRed        = RatingBand{Name: "red", Color: "rgba(255, 0, 0, 0.5)"}
	BandYellow     = RatingBand{Name: "yellow", Color: "rgba(255, 255, 0, 0.5)"}
	BandOrange     = RatingBand{Name: "orange", Color: "rgba(255, 165, 0, 0.5)"}
	BandLightGreen = RatingBand{Name: "light-green", Color: "rgba(144, 238, 144, 0.5)"}
	BandDarkGreen  = RatingBand{Name: "dark-green", Color: "rgba(0, 128, 0, 0.5)"}
)

// RatingStyle maps a rating to its band. Lower bounds are inclusive.
func RatingStyle(rating float64) RatingBand {
	switch {
	case rating >= 9:
		return BandDarkGreen
	case rating >= 7:
		return BandLightGreen
	case rating >= 5:
		return BandOrange
	case rating >= 1:
		return BandYellow
	default:
		// below 1, and NaN
		return BandRed
	}
}
