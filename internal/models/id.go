package models

import "github.com/google/uuid"

// NewID returns a globally unique identifier tagged with an entity prefix.
func NewID(prefix string) string {
	return prefix + uuid.NewString()
}

func NewClassID() string        { return NewID("cls_") }
func NewStudentID() string      { return NewID("stu_") }
func NewSeatingID() string      { return NewID("seat_") }
func NewSurveyID() string       { return NewID("srv_") }
func NewVoteID() string         { return NewID("vot_") }
func NewPrintProfileID() string { return NewID("pp_") }
