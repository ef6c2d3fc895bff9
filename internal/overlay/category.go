package overlay

import (
	"strconv"
	"strings"
)

// Category tags an attraction. Stored as an integer field.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryRide
	CategoryFood
	CategoryFirstAid
)

var categoryNames = [...]string{"generic", "ride", "food", "first_aid"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return categoryNames[CategoryGeneric]
	}
	return categoryNames[c]
}

// ParseCategory never fails: missing, non-numeric and out-of-range values all
// map to CategoryGeneric.
func ParseCategory(raw string) Category {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return CategoryGeneric
	}
	c := Category(n)
	if c < CategoryGeneric || c > CategoryFirstAid {
		return CategoryGeneric
	}
	return c
}
