package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/internship-checker/internal/types"
)

// gpaPatterns are tried in order; the first one that matches decides the result.
// Whitespace includes Unicode space separators such as NBSP, which Word
// documents use freely.
var gpaPatterns = []*regexp.Regexp{
	gpaPattern(`GPA_*(?:minimum|requirement|of|:)?_*([0-9.]+)_*(?:/|_)?_*([0-9.]+)?`),
	gpaPattern(`([0-9.]+)_*(?:/|_)?_*([0-9.]+)?_*GPA`),
	gpaPattern(`GPA_*≥_*([0-9.]+)`),
}

// gpaPattern compiles a case-insensitive pattern in which "_" stands for one
// whitespace character.
func gpaPattern(p string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + strings.ReplaceAll(p, "_", `[\s\p{Zs}]`))
}

// NormalizeGPA converts a free-text GPA requirement into "<value>/<scale>".
// When no scale is stated, values up to 4 are read on a 4-point scale and
// anything above on a 10-point scale. Returns "0" when nothing matches.
func NormalizeGPA(description string) string {
	for _, re := range gpaPatterns {
		m := re.FindStringSubmatch(description)
		if m == nil {
			continue
		}

		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return types.NoGPA
		}

		var scale float64
		if len(m) > 2 && m[2] != "" {
			// A malformed scale is treated as absent.
			scale, _ = strconv.ParseFloat(m[2], 64)
		}

		if scale != 0 {
			return formatValue(value) + "/" + formatScale(scale)
		}
		if value <= 4 {
			return formatValue(value) + "/4"
		}
		return formatValue(value) + "/10"
	}
	return types.NoGPA
}

// formatValue renders a GPA value with at least one fractional digit.
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatScale(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsNormalizedGPA reports whether s is "0" or a "<value>/<scale>" pair of decimals.
func IsNormalizedGPA(s string) bool {
	return s == types.NoGPA || normalizedGPA.MatchString(s)
}

var normalizedGPA = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?/[0-9]+(?:\.[0-9]+)?$`)
