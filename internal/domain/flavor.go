package domain

import "fmt"

// SelectedFlavor associates a cup with a catalog flavor.
// Several flavors on one cup may be marked dominant.
type SelectedFlavor struct {
	FlavorID  int  `json:"flavorId" validate:"min=1"`
	Intensity int  `json:"intensity" validate:"min=1,max=5"`
	Dominant  bool `json:"dominant"`
}

// Validate checks the intensity range.
func (f SelectedFlavor) Validate() error {
	if f.FlavorID < 1 {
		return fmt.Errorf("flavor id must be positive, got %d", f.FlavorID)
	}
	if f.Intensity < MinScore || f.Intensity > MaxScore {
		return fmt.Errorf("intensity must be between %d and %d, got %d", MinScore, MaxScore, f.Intensity)
	}
	return nil
}

// FlavorCount is how often a flavor was picked.
type FlavorCount struct {
	FlavorID     int     `json:"flavorId"`
	Count        int     `json:"count"`
	AvgIntensity float64 `json:"avgIntensity"`
}
