package common

// Terminal colors for console output.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps s in color unless plain is set.
func Colorize(s, color string, plain bool) string {
	if plain {
		return s
	}
	return color + s + ColorReset
}
