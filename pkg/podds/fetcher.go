package podds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/soccerprediction/internal/logger"
	"github.com/richard-senior/soccerprediction/pkg/transport"
	"github.com/richard-senior/soccerprediction/pkg/util"
	"golang.org/x/time/rate"
)

const (
	soccerpunterBaseURL = "http://www.soccerpunter.com/soccer-statistics/"
	resultsDateLayout   = "02/01/2006"
	excerptLength       = 400
)

// ErrResultsTableMissing is returned when a results page holds no results table
var ErrResultsTableMissing = errors.New("results table not found")

// rows of the results table that hold headings or event details rather than a match
var nonMatchRowClasses = []string{"titleSpace", "compHeading", "matchEvents", "compSubTitle"}

// ResultsFetcher retrieves one season of a competition, including fixtures not yet played
type ResultsFetcher interface {
	FetchSeason(ctx context.Context, country, competition string, season int) ([]*Match, error)
}

// PageSource returns the html of a page
type PageSource func(ctx context.Context, pageURL string) ([]byte, error)

// NewPageSource returns the page source for a renderer name
func NewPageSource(renderer string) (PageSource, error) {
	switch renderer {
	case RendererHTTP, "":
		return transport.GetHtml, nil
	case RendererBrowser:
		return transport.RenderHtml, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", renderer)
	}
}

// SoccerpunterFetcher scrapes season results pages from soccerpunter.com.
// Pages for completed seasons are cached on disk; the current season is always fetched.
type SoccerpunterFetcher struct {
	source    PageSource
	cachePath string
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewSoccerpunterFetcher creates a fetcher caching under cfg's data path
func NewSoccerpunterFetcher(cfg *PoddsConfig, source PageSource) *SoccerpunterFetcher {
	rps := float64(cfg.RequestsPerMinute) / 60.0
	return &SoccerpunterFetcher{
		source:    source,
		cachePath: cfg.CachePath(),
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		now:       time.Now,
	}
}

// SeasonURL builds the results page url ie.
// http://www.soccerpunter.com/soccer-statistics/England/Premier-League-2014-2015/results
func SeasonURL(country, competition string, season int) string {
	return soccerpunterBaseURL + country + "/" + util.Slug(competition) + "-" + SeasonLabel(season) + "/results"
}

// FetchSeason returns the season's matches sorted by date and home team
func (f *SoccerpunterFetcher) FetchSeason(ctx context.Context, country, competition string, season int) ([]*Match, error) {
	pageURL := SeasonURL(country, competition, season)
	today := DateOf(f.now())
	completed := season < CurrentSeason(today)

	html, err := f.page(ctx, pageURL, f.cacheFile(country, competition, season), completed)
	if err != nil {
		return nil, err
	}

	matches, err := ParseResultsPage(html, season, today)
	if errors.Is(err, ErrResultsTableMissing) {
		logger.Warn("No results table at", pageURL, "page begins:", pageExcerpt(html, pageURL))
		return nil, fmt.Errorf("%w at %s", err, pageURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	logger.Info("Fetched", len(matches), "matches for", country, competition, SeasonLabel(season))
	return matches, nil
}

func (f *SoccerpunterFetcher) cacheFile(country, competition string, season int) string {
	if f.cachePath == "" {
		return ""
	}
	return filepath.Join(f.cachePath, fmt.Sprintf("%s-%s-%s.html", util.Slug(country), util.Slug(competition), SeasonLabel(season)))
}

// page returns the html at pageURL, from the cache when the season is complete and cached
func (f *SoccerpunterFetcher) page(ctx context.Context, pageURL, cacheFile string, cacheable bool) ([]byte, error) {
	if cacheable && cacheFile != "" {
		if data, err := os.ReadFile(cacheFile); err == nil {
			logger.Debug("Returning page from cached file", cacheFile)
			return data, nil
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	logger.Info("Scraping:", pageURL)
	data, err := f.source(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	if cacheable && cacheFile != "" {
		if err := os.MkdirAll(filepath.Dir(cacheFile), 0755); err != nil {
			logger.Warn("Failed to create cache directory", err)
		} else if err := os.WriteFile(cacheFile, data, 0644); err != nil {
			// Continue processing even if caching fails
			logger.Warn("Failed to write cache file", cacheFile, err)
		} else {
			logger.Debug("Cached page to", cacheFile)
		}
	}
	return data, nil
}

// ParseResultsPage extracts the matches from a results page. Matches dated before today
// need a final score and are dropped when postponed, cancelled, suspended or not yet
// updated; matches from today on are fixtures with sentinel scores.
func ParseResultsPage(html []byte, season int, today time.Time) ([]*Match, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	table := doc.Find("table.competitionRanking").First()
	if table.Length() == 0 {
		return nil, ErrResultsTableMissing
	}

	today = DateOf(today)
	var matches []*Match
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if !isMatchRow(row) {
			return
		}
		dateStr := strings.TrimSpace(row.Find("a").First().Text())
		date, err := time.Parse(resultsDateLayout, dateStr)
		if err != nil {
			logger.Warn("Skipping row with unreadable date", i, dateStr)
			return
		}
		homeTeam := util.CleanTeamName(row.Find("td.teamHome").First().Text())
		awayTeam := util.CleanTeamName(row.Find("td.teamAway").First().Text())
		if homeTeam == "" || awayTeam == "" {
			logger.Warn("Skipping row without teams", i)
			return
		}

		if !date.Before(today) {
			matches = append(matches, NewMatch(date, homeTeam, awayTeam, season))
			return
		}
		home, away, ok := parseScoreString(strings.TrimSpace(row.Find("td.score").First().Text()))
		if !ok {
			logger.Debug("No final score for", homeTeam, "v", awayTeam, "on", date.Format(DateLayout))
			return
		}
		matches = append(matches, NewResult(date, homeTeam, awayTeam, home, away, season))
	})

	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].HomeTeam < matches[j].HomeTeam
	})
	return matches, nil
}

func isMatchRow(row *goquery.Selection) bool {
	class, ok := row.Attr("class")
	if !ok || strings.TrimSpace(class) == "" {
		return false
	}
	for _, c := range nonMatchRowClasses {
		if row.HasClass(c) {
			return false
		}
	}
	return true
}

// pageExcerpt renders the start of a page as markdown for diagnostics
func pageExcerpt(html []byte, pageURL string) string {
	domain := ""
	if u, err := url.Parse(pageURL); err == nil {
		domain = u.Host
	}
	markdown, err := htmltomarkdown.ConvertString(string(html), converter.WithDomain(domain))
	if err != nil {
		logger.Debug("Failed to convert page to markdown", err)
		return ""
	}
	markdown = strings.TrimSpace(markdown)
	if r := []rune(markdown); len(r) > excerptLength {
		markdown = string(r[:excerptLength]) + "..."
	}
	return markdown
}
