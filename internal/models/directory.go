package models

import "strings"

const photoInfoType = "photourl"

// Teacher is a catalog teacher with free-form info entries.
type Teacher struct {
	ID       int           `json:"id" validate:"gt=0"`
	FullName string        `json:"fullName" validate:"required"`
	Infos    []TeacherInfo `json:"infos"`
}

// TeacherInfo is a typed key/value fact about a teacher.
type TeacherInfo struct {
	InfoTypeName string `json:"infoTypeName"`
	Value        string `json:"value"`
}

// SplitPhoto separates the photo URL info from the remaining entries.
func (t Teacher) SplitPhoto() (string, []TeacherInfo) {
	var photo string
	rest := make([]TeacherInfo, 0, len(t.Infos))
	for _, info := range t.Infos {
		if strings.EqualFold(info.InfoTypeName, photoInfoType) {
			photo = info.Value
			continue
		}
		rest = append(rest, info)
	}
	return photo, rest
}

// Subject is a grouped catalog subject keyed by abbreviation.
type Subject struct {
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required"`
}

// SubjectDetails describes every variant (lecture, lab...) of a subject.
type SubjectDetails struct {
	Name         string           `json:"name" validate:"required"`
	Abbreviation string           `json:"abbreviation"`
	Variants     []SubjectVariant `json:"variants"`
}

// SubjectVariant is one teaching form of a subject.
type SubjectVariant struct {
	SubjectType SubjectType      `json:"subjectType"`
	Infos       []SubjectInfo    `json:"infos"`
	Teachers    []SubjectTeacher `json:"teachers"`
}

// SubjectType names a teaching form.
type SubjectType struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// SubjectInfo is a typed key/value fact about a subject variant.
type SubjectInfo struct {
	InfoTypeName string `json:"infoTypeName"`
	Value        string `json:"value"`
}

// SubjectTeacher is a teacher reference inside subject details.
type SubjectTeacher struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
}
