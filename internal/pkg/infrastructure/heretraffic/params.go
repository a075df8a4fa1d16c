package heretraffic

import (
	"fmt"
	"strconv"
	"strings"
)

func bboxValue(topLeft, bottomRight Point) string {
	return fmt.Sprintf("%s,%s;%s,%s",
		formatCoord(topLeft.Latitude), formatCoord(topLeft.Longitude),
		formatCoord(bottomRight.Latitude), formatCoord(bottomRight.Longitude),
	)
}

func proxValue(latitude, longitude float64, radiusMeters int) string {
	return fmt.Sprintf("%s,%s,%d", formatCoord(latitude), formatCoord(longitude), radiusMeters)
}

func corridorValue(points []Point, width int) string {
	sb := strings.Builder{}

	for _, p := range points {
		sb.WriteString(formatCoord(p.Latitude))
		sb.WriteString(",")
		sb.WriteString(formatCoord(p.Longitude))
		sb.WriteString(";")
	}

	sb.WriteString(strconv.Itoa(width))

	return sb.String()
}

// formatCoord renders a coordinate in decimal degrees, always with a decimal
// point so that whole degrees encode as "62.0" rather than "62".
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
