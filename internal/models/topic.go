package models

import "time"

type Topic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SubjectID string    `json:"subjectId"`
	Subject   *Subject  `json:"subject,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateTopicRequest struct {
	Name      string `json:"name" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
}

type UpdateTopicRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1"`
	SubjectID *string `json:"subjectId,omitempty" validate:"omitempty,min=1"`
}

// TopicPatch is the storage-level form of a topic update.
type TopicPatch struct {
	Name      *string
	SubjectID *string
}
