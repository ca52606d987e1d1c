package validation

import (
	"errors"

	"github.com/gookit/validate"
)

func init() {
	validate.AddValidator("hobbyName", func(val any) bool {
		s, ok := val.(string)
		return ok && ValidateHobbyName(s)
	})
	validate.AddValidator("civilDate", func(val any) bool {
		s, ok := val.(string)
		return ok && ValidateDateFormat(s)
	})
	validate.AddValidator("sessionDuration", func(val any) bool {
		m, ok := val.(int)
		return ok && ValidateSessionDuration(m)
	})
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required|hobbyName" message:"Name must be 2-50 characters."`
	Location string `json:"location" validate:"maxLen:100"`
}

type CreateHobbyRequest struct {
	UserID string `json:"userId" validate:"required"`
	Name   string `json:"name" validate:"required|hobbyName" message:"Hobby name must be 2-50 characters."`
	Icon   string `json:"icon" validate:"maxLen:16"`
}

type CreateSessionRequest struct {
	UserID          string `json:"userId" validate:"required"`
	HobbyID         string `json:"hobbyId" validate:"required" message:"Select a hobby to log a session."`
	Date            string `json:"date" validate:"required|civilDate" message:"Choose a valid date not in the future."`
	DurationMinutes int    `json:"durationMinutes" validate:"required|sessionDuration" message:"Duration must be between 1 and 1440 minutes."`
}

// Struct runs the tag rules of a request and reports the first failure.
func Struct(req any) error {
	v := validate.Struct(req)
	if v.Validate() {
		return nil
	}
	return errors.New(v.Errors.One())
}
