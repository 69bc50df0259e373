package podds

import (
	"fmt"
	"strings"
	"time"

	"github.com/richard-senior/soccerprediction/pkg/util"
)

// SeasonStartMonth is the month from which a date counts towards the season starting that year
const SeasonStartMonth = time.July

// ParseSeason returns the first year of a season given in any of the forms
// 2014, "2014", "2014-2015", "2014/2015", "2014-15" or "2014/15"
func ParseSeason(season any) (int, error) {
	if season == nil {
		return 0, fmt.Errorf("must pass a season")
	}
	ss, err := util.GetAsString(season)
	if err != nil {
		return 0, err
	}
	ss = strings.TrimSpace(ss)

	switch {
	case len(ss) == 4:
		return util.GetAsInteger(ss)
	case len(ss) == 9 && (ss[4] == '-' || ss[4] == '/'):
		first, err := util.GetAsInteger(ss[:4])
		if err != nil {
			return 0, err
		}
		second, err := util.GetAsInteger(ss[5:])
		if err != nil {
			return 0, err
		}
		if second != first+1 {
			return 0, fmt.Errorf("invalid season %s: years must be consecutive", ss)
		}
		return first, nil
	case len(ss) == 7 && (ss[4] == '-' || ss[4] == '/'):
		// short form ie. 2023/24
		first, err := util.GetAsInteger(ss[:4])
		if err != nil {
			return 0, err
		}
		second, err := util.GetAsInteger(ss[5:])
		if err != nil {
			return 0, err
		}
		if second != (first+1)%100 {
			return 0, fmt.Errorf("invalid season %s: years must be consecutive", ss)
		}
		return first, nil
	}
	return 0, fmt.Errorf("invalid season format: %s", ss)
}

// SeasonLabel renders a season the way results urls do ie. 2014 -> "2014-2015"
func SeasonLabel(season int) string {
	return fmt.Sprintf("%d-%d", season, season+1)
}

// CurrentSeason returns the season in progress (or about to start) on the given day
func CurrentSeason(today time.Time) int {
	if today.Month() >= SeasonStartMonth {
		return today.Year()
	}
	return today.Year() - 1
}
