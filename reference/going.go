package reference

const (
	SurfaceTurf = "Turf"
	SurfaceAW   = "AW"
	SurfaceDirt = "Dirt"
)

var surfaces = map[string]string{
	"Slow":             SurfaceAW,
	"Standard":         SurfaceAW,
	"Standard To Fast": SurfaceAW,
	"Standard To Slow": SurfaceAW,

	"Fast":   SurfaceDirt,
	"Muddy":  SurfaceDirt,
	"Sloppy": SurfaceDirt,

	"Firm":             SurfaceTurf,
	"Good":             SurfaceTurf,
	"Good To Firm":     SurfaceTurf,
	"Good To Soft":     SurfaceTurf,
	"Good To Yielding": SurfaceTurf,
	"Hard":             SurfaceTurf,
	"Heavy":            SurfaceTurf,
	"Holding":          SurfaceTurf,
	"Soft":             SurfaceTurf,
	"Soft To Heavy":    SurfaceTurf,
	"Very Soft":        SurfaceTurf,
	"Yielding":         SurfaceTurf,
	"Yielding To Soft": SurfaceTurf,
}

// Surface returns the racing surface implied by a going description, or ""
// when the description is not one the site publishes.
func Surface(going string) string {
	return surfaces[going]
}
