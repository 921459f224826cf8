package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedData(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "GB", d.RegionOf("2"))
	assert.Equal(t, "IRE", d.RegionOf("188"))
	assert.Equal(t, "USA", d.RegionOf("255"))
	assert.Equal(t, "", d.RegionOf("999999"))
	assert.Equal(t, "Ascot", d.CourseName("2"))
	assert.True(t, d.ValidCourse("394"))
	assert.True(t, d.ValidRegion("IRE"))
	assert.False(t, d.ValidRegion("zz"))
}

func TestCoursesOrdered(t *testing.T) {
	d, err := Parse([]byte(`{"regions":{"gb":"Great Britain"},"courses":{"gb":{"10":"Catterick","2":"Ascot","394":"Southwell (AW)"}}}`))
	require.NoError(t, err)

	cs, err := d.Courses("gb")
	require.NoError(t, err)
	require.Len(t, cs, 3)
	assert.Equal(t, []string{"2", "10", "394"}, []string{cs[0].ID, cs[1].ID, cs[2].ID})
	assert.Equal(t, "GB", cs[0].Region)

	_, err = d.Courses("xx")
	assert.ErrorIs(t, err, ErrUnknownRegion)

	found := d.SearchCourses("south")
	require.Len(t, found, 1)
	assert.Equal(t, "394", found[0].ID)
}

func TestDuplicateCourseRejected(t *testing.T) {
	_, err := Parse([]byte(`{"regions":{},"courses":{"gb":{"1":"A"},"ire":{"1":"B"}}}`))
	assert.Error(t, err)
}

func TestSearchRegions(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	rs := d.SearchRegions("ire")
	require.Len(t, rs, 1)
	assert.Equal(t, "ire", rs[0].Code)
}

func TestValidMeeting(t *testing.T) {
	assert.True(t, ValidMeeting("Ascot"))
	assert.False(t, ValidMeeting("Free To Air Racing"))
	assert.False(t, ValidMeeting("Meydan (ARAB)"))
}

func TestCourseAlias(t *testing.T) {
	id, name, ok := CourseAlias("Belmont At The Big A")
	assert.True(t, ok)
	assert.Equal(t, "255", id)
	assert.Equal(t, "Aqueduct", name)

	_, _, ok = CourseAlias("Belmont Park")
	assert.False(t, ok)
}

func TestSurface(t *testing.T) {
	assert.Equal(t, SurfaceTurf, Surface("Good To Soft"))
	assert.Equal(t, SurfaceAW, Surface("Standard"))
	assert.Equal(t, SurfaceDirt, Surface("Sloppy"))
	assert.Equal(t, "", Surface("Unknown"))
}
