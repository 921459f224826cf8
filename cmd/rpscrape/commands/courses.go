package commands

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/padraicbc/rpscrape/reference"
)

var (
	courseRegion string
	courseSearch string
	regionSearch string
)

var coursesCmd = &cobra.Command{
	Use:   "courses [-r REGION] [-s TERM]",
	Short: "Lists course ids, optionally for one region or matching a name.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var courses []reference.Course
		if courseSearch != "" {
			courses = cur.ref.SearchCourses(courseSearch)
		} else {
			var err error
			if courses, err = cur.ref.Courses(courseRegion); err != nil {
				return err
			}
		}
		renderCourses(os.Stdout, courses)
		return nil
	},
}

var regionsCmd = &cobra.Command{
	Use:   "regions [-s TERM]",
	Short: "Lists region codes.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		regions := cur.ref.Regions()
		if regionSearch != "" {
			regions = cur.ref.SearchRegions(regionSearch)
		}
		renderRegions(os.Stdout, regions)
	},
}

func init() {
	coursesCmd.Flags().StringVarP(&courseRegion, "region", "r", "", "region code")
	coursesCmd.Flags().StringVarP(&courseSearch, "search", "s", "", "part of a course name")
	regionsCmd.Flags().StringVarP(&regionSearch, "search", "s", "", "part of a region name")
	rootCmd.AddCommand(coursesCmd, regionsCmd)
}

func renderCourses(w io.Writer, courses []reference.Course) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Course", "Region"})
	for _, c := range courses {
		t.AppendRow(table.Row{c.ID, c.Name, c.Region})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderRegions(w io.Writer, regions []reference.Region) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Code", "Region"})
	for _, r := range regions {
		t.AppendRow(table.Row{r.Code, r.Name})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
