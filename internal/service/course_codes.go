package service

import "strings"

// DefaultCourseCode is used for course names outside the fixed mapping. An
// unmapped course is not an error; the roll number simply carries the
// generic prefix.
const DefaultCourseCode = "GEN"

var courseCodes = map[string]string{
	"computer science": "CS",
	"mathematics":      "MATH",
	"physics":          "PHY",
	"chemistry":        "CHEM",
	"biology":          "BIO",
	"engineering":      "ENG",
	"business":         "BUS",
	"arts":             "ARTS",
	"law":              "LAW",
}

// CourseCode resolves a course name to its roll-number prefix, falling back
// to DefaultCourseCode for unknown courses.
func CourseCode(course string) string {
	if code, ok := courseCodes[strings.ToLower(strings.TrimSpace(course))]; ok {
		return code
	}
	return DefaultCourseCode
}
