package units

import "fmt"

const (
	KB = 1000
	MB = 1000 * KB
	GB = 1000 * MB
	TB = 1000 * GB
	PB = 1000 * TB
)

var decimalAbbrs = []string{"B", "kB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

func getSizeAndUnit(size float64, base float64, abbrs []string) (float64, string) {
	i := 0
	unitsLimit := len(abbrs) - 1
	for size >= base && i < unitsLimit {
		size = size / base
		i++
	}
	return size, abbrs[i]
}

// HumanSize formats bytes with decimal units, e.g. "42.1MB".
func HumanSize(size int64) string {
	return HumanSizeWithPrecision(float64(size), 3)
}

func HumanSizeWithPrecision(size float64, precision int) string {
	size, unit := getSizeAndUnit(size, 1000.0, decimalAbbrs)
	return fmt.Sprintf("%.*g%s", precision, size, unit)
}
