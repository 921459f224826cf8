package batch

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/padraicbc/rpscrape/fetch"
	"github.com/padraicbc/rpscrape/reference"
	"github.com/padraicbc/rpscrape/scrape"
)

// DayLinks collects the result pages for each date, sorted.
func DayLinks(ctx context.Context, f fetch.Fetcher, base string, dates []string, region string, ref *reference.Data) ([]string, error) {
	var urls []string
	for _, d := range dates {
		doc, err := fetch.Document(ctx, f, base+"/results/"+d)
		if err != nil {
			return nil, err
		}
		urls = append(urls, scrape.ResultLinks(doc, base, region, ref)...)
	}
	SortRaceURLs(urls)
	return urls, nil
}

// CourseLinks collects a course's result pages over years for one code.
func CourseLinks(ctx context.Context, f fetch.Fetcher, base, courseID, course string, years []string, code string) ([]string, error) {
	slug := strings.ToLower(strings.ReplaceAll(course, " ", "-"))
	var urls []string
	for _, y := range years {
		body, err := fetch.Body(ctx, f, scrape.CourseResultsURL(base, courseID, y, code))
		if err != nil {
			return nil, err
		}
		links, err := scrape.CourseYearLinks(body, base, courseID, slug)
		if err != nil {
			return nil, err
		}
		urls = append(urls, links...)
	}
	SortRaceURLs(urls)
	return urls, nil
}

// SortRaceURLs orders result URLs by date, course and race id.
// URLs look like {base}/results/{course_id}/{course}/{date}/{race_id}.
func SortRaceURLs(urls []string) {
	type key struct {
		date, course string
		id           int
	}
	keyOf := func(u string) key {
		p := strings.Split(u, "/")
		if len(p) < 8 {
			return key{}
		}
		id, _ := strconv.Atoi(p[7])
		return key{date: p[6], course: p[5], id: id}
	}
	sort.SliceStable(urls, func(i, j int) bool {
		a, b := keyOf(urls[i]), keyOf(urls[j])
		if a.date != b.date {
			return a.date < b.date
		}
		if a.course != b.course {
			return a.course < b.course
		}
		return a.id < b.id
	})
}

// URLDates returns the distinct dates of the given result URLs.
func URLDates(urls []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range urls {
		p := strings.Split(u, "/")
		if len(p) < 7 || seen[p[6]] {
			continue
		}
		seen[p[6]] = true
		out = append(out, p[6])
	}
	return out
}
