package heretraffic

import (
	"fmt"
	"strconv"
	"strings"
)

// CriticalityStr is the string coded severity tier used by bounding box
// queries.
type CriticalityStr string

const (
	CriticalityCritical  CriticalityStr = "critical"
	CriticalityMajor     CriticalityStr = "major"
	CriticalityMinor     CriticalityStr = "minor"
	CriticalityLowImpact CriticalityStr = "lowImpact"
)

// CriticalityInt is the integer coded severity tier used by proximity
// queries. The numeric values are defined by the incidents API.
type CriticalityInt int

const (
	CriticalityIntCritical CriticalityInt = iota
	CriticalityIntMajor
	CriticalityIntMinor
	CriticalityIntLowImpact
)

// ParseCriticalities parses a comma separated list of string coded severity
// tiers, as found in service configuration.
func ParseCriticalities(value string) ([]CriticalityStr, error) {
	known := map[CriticalityStr]struct{}{
		CriticalityCritical:  {},
		CriticalityMajor:     {},
		CriticalityMinor:     {},
		CriticalityLowImpact: {},
	}

	tokens := strings.Split(value, ",")
	criticalities := make([]CriticalityStr, 0, len(tokens))

	for _, token := range tokens {
		c := CriticalityStr(strings.TrimSpace(token))
		if _, ok := known[c]; !ok {
			return nil, fmt.Errorf("unknown criticality %q", token)
		}

		criticalities = append(criticalities, c)
	}

	return criticalities, nil
}

func joinCriticalityStr(criticality []CriticalityStr) string {
	tokens := make([]string, len(criticality))
	for i, c := range criticality {
		tokens[i] = string(c)
	}

	return strings.Join(tokens, ",")
}

func joinCriticalityInt(criticality []CriticalityInt) string {
	tokens := make([]string, len(criticality))
	for i, c := range criticality {
		tokens[i] = strconv.Itoa(int(c))
	}

	return strings.Join(tokens, ",")
}
