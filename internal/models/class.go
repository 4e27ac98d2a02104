package models

// ClassRoom is one homeroom for one school year and term. The JSON field
// names are the persisted contract; renaming any of them breaks previously
// stored data. Timestamps are epoch milliseconds, assigned by the writer.
type ClassRoom struct {
	ID          string `json:"id"`
	SchoolYear  int    `json:"schoolYear"`
	Term        int    `json:"term"`
	Grade       int    `json:"grade"`
	ClassNo     int    `json:"classNo"`
	TeacherName string `json:"teacherName"`
	Nickname    string `json:"nickname"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// ClassDraft carries caller-supplied fields for create and update; nil
// means "not provided", letting the repository fill defaults.
type ClassDraft struct {
	SchoolYear  *int    `json:"schoolYear"`
	Term        *int    `json:"term"`
	Grade       *int    `json:"grade"`
	ClassNo     *int    `json:"classNo"`
	TeacherName *string `json:"teacherName"`
	Nickname    *string `json:"nickname"`
}
