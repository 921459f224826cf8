package scrape

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/padraicbc/rpscrape/reference"
)

// CardLink is one race found on a racecards day page.
type CardLink struct {
	RaceID string
	Href   string
}

// ResultLinks lists the result pages on a results day page, in page order
// and without duplicates. With region set, only that region's courses are
// kept.
func ResultLinks(doc *goquery.Document, base, region string, ref *reference.Data) []string {
	seen := map[string]bool{}
	var links []string
	doc.Find(`a[data-test-selector="link-listCourseNameLink"]`).Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if href == "" || seen[href] {
			return
		}
		if !inRegion(ref, pathPart(a, 2), region) {
			return
		}
		seen[href] = true
		links = append(links, base+href)
	})
	return links
}

// CardLinks lists the races on a racecards day page, skipping meetings that
// are not real fixtures.
func CardLinks(doc *goquery.Document, region string, ref *reference.Data) []CardLink {
	var links []CardLink
	doc.Find("section[data-accordion-row]").Each(func(_ int, meeting *goquery.Selection) {
		course := strings.ToLower(first(meeting, "span.RC-accordion__courseName"))
		if !reference.ValidMeeting(course) {
			return
		}
		meeting.Find("a.RC-meetingItem__link").Each(func(_ int, a *goquery.Selection) {
			if !inRegion(ref, pathPart(a, 2), region) {
				return
			}
			links = append(links, CardLink{
				RaceID: a.AttrOr("data-race-id", ""),
				Href:   a.AttrOr("href", ""),
			})
		})
	})
	return links
}

func inRegion(ref *reference.Data, courseID, region string) bool {
	if region == "" || region == "all" {
		return ref.ValidCourse(courseID)
	}
	return ref.RegionOf(courseID) == strings.ToUpper(region)
}

// CourseResultsURL is the feed listing a course's races for one year and
// race code.
func CourseResultsURL(base, courseID, year, code string) string {
	return fmt.Sprintf("%s/profile/course/filter/results/%s/%s/%s/all-races", base, courseID, year, code)
}

type courseResults struct {
	Data struct {
		Races []struct {
			RaceDatetime string `json:"raceDatetime"`
			RaceID       int    `json:"raceInstanceUid"`
		} `json:"principleRaceResults"`
	} `json:"data"`
}

// CourseYearLinks turns a course results feed into result page URLs. slug
// is the course name as it appears in result paths.
func CourseYearLinks(body []byte, base, courseID, slug string) ([]string, error) {
	var cr courseResults
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("%w: course results: %w", ErrMalformedField, err)
	}
	links := make([]string, 0, len(cr.Data.Races))
	for _, r := range cr.Data.Races {
		if len(r.RaceDatetime) < 10 {
			continue
		}
		links = append(links, fmt.Sprintf("%s/results/%s/%s/%s/%d", base, courseID, slug, r.RaceDatetime[:10], r.RaceID))
	}
	return links, nil
}
