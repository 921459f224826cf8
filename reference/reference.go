// Package reference holds the course and region lookup tables. A Data value
// is loaded once at start-up and passed to the extractors that need it.
package reference

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

//go:embed courses.json
var defaultCourses []byte

var ErrUnknownRegion = errors.New("reference: unknown region")

// Course is one racecourse entry.
type Course struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Region is one region code and its display name.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type file struct {
	Regions map[string]string            `json:"regions"`
	Courses map[string]map[string]string `json:"courses"`
}

// Data answers course and region lookups. It is read-only after Load.
type Data struct {
	regions  map[string]string
	courses  map[string]map[string]string
	regionOf map[string]string
}

// Load reads the tables from path, or the built-in copy when path is empty.
func Load(path string) (*Data, error) {
	raw := defaultCourses
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reference: read %s: %w", path, err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse builds Data from the JSON document layout used by courses.json.
func Parse(raw []byte) (*Data, error) {
	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("reference: decode: %w", err)
	}

	d := &Data{
		regions:  make(map[string]string, len(f.Regions)),
		courses:  make(map[string]map[string]string, len(f.Courses)),
		regionOf: map[string]string{},
	}
	for code, name := range f.Regions {
		d.regions[strings.ToLower(code)] = name
	}
	for region, courses := range f.Courses {
		region = strings.ToLower(region)
		d.courses[region] = courses
		for id := range courses {
			if prev, ok := d.regionOf[id]; ok {
				return nil, fmt.Errorf("reference: course %s listed under %s and %s", id, prev, region)
			}
			d.regionOf[id] = strings.ToUpper(region)
		}
	}
	return d, nil
}

// RegionOf returns the upper-case region code for a course id, or "".
func (d *Data) RegionOf(courseID string) string {
	return d.regionOf[courseID]
}

// CourseName returns the display name for a course id, or "".
func (d *Data) CourseName(courseID string) string {
	region, ok := d.regionOf[courseID]
	if !ok {
		return ""
	}
	return d.courses[strings.ToLower(region)][courseID]
}

// Courses lists the courses of one region, or every course when region is
// empty, ordered by numeric id.
func (d *Data) Courses(region string) ([]Course, error) {
	region = strings.ToLower(region)
	var out []Course
	if region == "" {
		for r, cs := range d.courses {
			out = appendCourses(out, r, cs)
		}
	} else {
		cs, ok := d.courses[region]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
		}
		out = appendCourses(out, region, cs)
	}
	sort.Slice(out, func(i, j int) bool { return courseLess(out[i].ID, out[j].ID) })
	return out, nil
}

// SearchCourses returns every course whose name contains term, ignoring case.
func (d *Data) SearchCourses(term string) []Course {
	all, _ := d.Courses("")
	term = strings.ToLower(term)
	out := all[:0]
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}

// Regions lists every region ordered by code.
func (d *Data) Regions() []Region {
	out := make([]Region, 0, len(d.regions))
	for code, name := range d.regions {
		out = append(out, Region{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// SearchRegions returns the regions whose name contains term.
func (d *Data) SearchRegions(term string) []Region {
	term = strings.ToLower(term)
	var out []Region
	for _, r := range d.Regions() {
		if strings.Contains(strings.ToLower(r.Name), term) {
			out = append(out, r)
		}
	}
	return out
}

func (d *Data) ValidRegion(code string) bool {
	_, ok := d.regions[strings.ToLower(code)]
	return ok
}

func (d *Data) ValidCourse(courseID string) bool {
	_, ok := d.regionOf[courseID]
	return ok
}

// ValidMeeting filters out meetings that are not real race cards.
func ValidMeeting(name string) bool {
	name = strings.ToLower(name)
	for _, bad := range []string{"free to air", "worldwide stakes", "(arab)"} {
		if strings.Contains(name, bad) {
			return false
		}
	}
	return true
}

// CourseAlias maps course names the site publishes under a temporary venue
// to the course they are filed against.
func CourseAlias(name string) (id, course string, ok bool) {
	if strings.Contains(strings.ToLower(name), "belmont at the big a") {
		return "255", "Aqueduct", true
	}
	return "", "", false
}

func appendCourses(out []Course, region string, cs map[string]string) []Course {
	for id, name := range cs {
		out = append(out, Course{ID: id, Name: name, Region: strings.ToUpper(region)})
	}
	return out
}

func courseLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr != nil || berr != nil {
		return a < b
	}
	return ai < bi
}
