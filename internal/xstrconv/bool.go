package xstrconv

import (
	"strconv"
	"strings"
)

// ParseBool extends strconv.ParseBool with the values HTML checkboxes and
// toggles submit ("on"/"off", "yes"/"no").
func ParseBool(str string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	default:
		return strconv.ParseBool(str)
	}
}
