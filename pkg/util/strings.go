package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// markers the results pages append to team names for extra time, penalty
// shootouts and neutral grounds
var teamNameMarkers = []string{"[ET]", "[PS]", "[N]"}

// Slug converts a competition or country name into the hyphenated form used
// in urls and file names ie. "Premier League" -> "Premier-League", "Serie A/B" -> "Serie-A-B"
func Slug(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	return strings.ReplaceAll(s, "/", "-")
}

// CleanTeamName removes result markers and surrounding whitespace from a team name
func CleanTeamName(name string) string {
	for _, m := range teamNameMarkers {
		name = strings.ReplaceAll(name, m, "")
	}
	return strings.TrimSpace(name)
}

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// ClosestMatch returns the candidate with the smallest case-insensitive edit distance
// to term, along with that distance. Returns "" and math.MaxInt32 when there are no candidates
func ClosestMatch(term string, candidates []string) (string, int) {
	best := ""
	bestDistance := math.MaxInt32
	t := strings.ToLower(strings.TrimSpace(term))
	for _, c := range candidates {
		d := LevenshteinDistance(t, strings.ToLower(strings.TrimSpace(c)))
		if d < bestDistance {
			best = c
			bestDistance = d
		}
	}
	return best, bestDistance
}

// GetAsString converts various types to string
func GetAsString(s any) (string, error) {
	if s == nil {
		return "", fmt.Errorf("cannot convert nil to string")
	}

	switch v := s.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// GetAsInteger converts various types to integer
// If s is a string that represents an integer, convert it to an integer and return it
// If s is any other type, return an error
func GetAsInteger(s any) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot convert nil to integer")
	}

	switch v := s.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("int64 value %d is out of int range", v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("float64 value %f is not a whole number", v)
		}
		return int(v), nil
	case string:
		result, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("cannot convert string '%s' to integer: %w", v, err)
		}
		return result, nil
	default:
		return 0, fmt.Errorf("cannot convert type %T to integer", s)
	}
}
