package models

// Plant describes a factory site whose records can be viewed. Name is
// the exact value stored in the record store's plant field.
type Plant struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

// DefaultPlants returns the built-in plant roster used when no roster
// file exists yet.
func DefaultPlants() []Plant {
	return []Plant{
		{Code: "GGPC", Name: DefaultPlant},
	}
}
