package repository

type HouseSystem string

const (
	Placidus   HouseSystem = "placidus"
	WholeSign  HouseSystem = "whole_sign"
	Koch       HouseSystem = "koch"
	EqualHouse HouseSystem = "equal"
)

// IsValidHouseSystem returns true if hs is a supported house system.
func IsValidHouseSystem(hs HouseSystem) bool {
	switch hs {
	case Placidus, WholeSign, Koch, EqualHouse:
		return true
	default:
		return false
	}
}

// DefaultHouseSystem returns the default house system.
func DefaultHouseSystem() HouseSystem { return Placidus }

// NormalizeHouseSystem converts raw string to a valid house system (or default).
func NormalizeHouseSystem(s string) HouseSystem {
	if s == "" {
		return DefaultHouseSystem()
	}
	hs := HouseSystem(s)
	if IsValidHouseSystem(hs) {
		return hs
	}
	return DefaultHouseSystem()
}
