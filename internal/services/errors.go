package services

import (
	"errors"
	"net/http"

	"qbank/internal/models"
)

// AppError is an expected business outcome carrying the HTTP status and a
// client-facing message. Anything else returned by a service is an internal
// failure.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func badRequest(code, message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func unauthorized(code, message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func forbidden(code, message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: code, Message: message}
}

func notFound(code, message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: code, Message: message}
}

// AsAppError unwraps err into an *AppError when it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// fromValidation turns an entity invariant violation into a 400.
func fromValidation(err error) (*AppError, bool) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return badRequest("validation_error", verr.Message), true
	}
	return nil, false
}

const (
	MsgUserNotFound       = "User not found."
	MsgUserEmailTaken     = "User with this email already exists."
	MsgEmailInUse         = "This email is already in use by another user."
	MsgInvalidCredentials = "Invalid credentials."
	MsgEditOwnProfile     = "You can only edit your own profile."
	MsgTokenInvalid       = "Token invalid or expired."

	MsgResetFieldsRequired = "Fields userId, token and newPassword are required."
	MsgResetTokenInvalid   = "Invalid password reset token."
	MsgResetTokenUsed      = "Password reset token has already been used."
	MsgResetTokenExpired   = "Password reset token has expired."
	MsgResetRequested      = "If the email is registered, a reset link will be sent."
	MsgResetDone           = "Password reset successfully."

	MsgSubjectNotFound  = "Subject not found."
	MsgSubjectNameTaken = "A subject with this name already exists."
	MsgSubjectInUse     = "Subject is still referenced by %s."
	MsgTopicNotFound    = "Topic not found."
	MsgTopicNameTaken   = "A topic with this name already exists in this subject."
	MsgQuestionNotFound = "Question not found."

	MsgAlternativesRequired = "A question must have at least one alternative."
	MsgExactlyOneCorrect    = "A question must have exactly one correct alternative."
)
