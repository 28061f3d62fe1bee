package models

import "time"

type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateSubjectRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`
}
