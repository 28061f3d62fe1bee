package models

import "time"

type Question struct {
	ID           string        `json:"id"`
	Text         string        `json:"text"`
	SubjectID    string        `json:"subjectId"`
	Subject      *Subject      `json:"subject,omitempty"`
	Topics       []Topic       `json:"topics"`
	Alternatives []Alternative `json:"alternatives"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Alternative struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"isCorrect"`
}

type AlternativeInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type CreateQuestionRequest struct {
	Text         string             `json:"text" validate:"required"`
	SubjectID    string             `json:"subjectId" validate:"required"`
	TopicIDs     []string           `json:"topicIds" validate:"dive,required"`
	Alternatives []AlternativeInput `json:"alternatives" validate:"dive"`
}

// UpdateQuestionRequest is a partial update. A nil slice means the field was
// absent from the payload; an empty non-nil slice means it was sent as [].
type UpdateQuestionRequest struct {
	Text         *string            `json:"text,omitempty" validate:"omitempty,min=1"`
	SubjectID    *string            `json:"subjectId,omitempty" validate:"omitempty,min=1"`
	TopicIDs     []string           `json:"topicIds,omitempty" validate:"dive,required"`
	Alternatives []AlternativeInput `json:"alternatives,omitempty" validate:"dive"`
}

// QuestionFilter narrows a question listing. Empty fields match everything.
type QuestionFilter struct {
	SubjectID string
	TopicID   string
}

// NewQuestion is the storage-level form of a question create.
type NewQuestion struct {
	ID           string
	Text         string
	SubjectID    string
	TopicIDs     []string
	Alternatives []AlternativeInput
}

// QuestionPatch is the storage-level form of a question update. Nil slices
// leave the corresponding association untouched.
type QuestionPatch struct {
	Text         *string
	SubjectID    *string
	TopicIDs     []string
	Alternatives []AlternativeInput
}
