package models

import "github.com/uptrace/bun"

// Course represents a racecourse.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	CourseID string `bun:"course_id,pk" json:"courseID"`
	Course   string `bun:"course,notnull" json:"course"`
	Region   string `bun:"region,notnull" json:"region"`
	IsAW     bool   `bun:"is_aw,notnull" json:"isAw"`
}
