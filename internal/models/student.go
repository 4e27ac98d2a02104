package models

// Gender values stored on a student. Empty means unspecified.
const (
	GenderUnknown = ""
	GenderMale    = "M"
	GenderFemale  = "F"
)

// Student is one roster entry owned by exactly one ClassRoom. The (classId,
// number) pair is unique within a class, enforced by the store. Active is a
// visibility flag, not a deletion marker.
type Student struct {
	ID        string `json:"id"`
	ClassID   string `json:"classId"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Notes     string `json:"notes"`
	LockerNo  *int   `json:"lockerNo"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// StudentDraft is an unpersisted candidate student, either parsed from
// pasted text or supplied by the caller; the repository applies defaulting.
type StudentDraft struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Notes    string `json:"notes,omitempty"`
	LockerNo *int   `json:"lockerNo,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

// StudentPatch carries caller-supplied fields for updates; nil means keep
// the existing value.
type StudentPatch struct {
	Number   *int    `json:"number"`
	Name     *string `json:"name"`
	Gender   *string `json:"gender"`
	Notes    *string `json:"notes"`
	LockerNo *int    `json:"lockerNo"`
	Active   *bool   `json:"active"`
}
