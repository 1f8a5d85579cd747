package model

// Location is where prayer times are computed for.
type Location struct {
	Latitude  float64 `yaml:"latitude"  json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	City      string  `yaml:"city"      json:"city"`
	Country   string  `yaml:"country"   json:"country"`

	// Timezone is the IANA zone reported by detection. It is stored in the
	// settings' own timezone field, never inline.
	Timezone string `yaml:"-" json:"timezone,omitempty"`
}

// Mecca is used whenever the location cannot be detected.
var Mecca = Location{
	Latitude:  21.4225,
	Longitude: 39.8262,
	City:      "Mecca",
	Country:   "Saudi Arabia",
}
