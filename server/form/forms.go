package form

import (
	"net/http"
	"strings"
)

func value(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func ParseLogin(r *http.Request) Login {
	return Login{
		Email:    value(r, "email"),
		Password: r.FormValue("password"),
	}
}

func (Login) messages() map[string]string {
	return map[string]string{
		"email.required":    "Email is required",
		"email.email":       "Email is invalid",
		"password.required": "Password is required",
	}
}

type Club struct {
	Name        string `form:"name" validate:"required,min=3"`
	Description string `form:"description" validate:"required,min=10"`
}

func ParseClub(r *http.Request) Club {
	return Club{
		Name:        value(r, "name"),
		Description: value(r, "description"),
	}
}

func (Club) messages() map[string]string {
	return map[string]string{
		"name.required":        "Club name is required",
		"name.min":             "Name must be at least 3 characters",
		"description.required": "Description is required",
		"description.min":      "Description must be at least 10 characters",
	}
}

type Post struct {
	Content string `form:"content" validate:"required,min=5"`
}

func ParsePost(r *http.Request) Post {
	return Post{
		Content: value(r, "content"),
	}
}

func (Post) messages() map[string]string {
	return map[string]string{
		"content.required": "Content is required",
		"content.min":      "Content must be at least 5 characters long",
	}
}

// EventDateLayout is the value format of a datetime-local input.
const EventDateLayout = "2006-01-02T15:04"

type Event struct {
	Content   string `form:"content" validate:"required,min=5"`
	EventName string `form:"eventName" validate:"required"`
	EventDate string `form:"eventDate" validate:"required,datetime=2006-01-02T15:04"`
	Location  string `form:"location" validate:"required"`
}

func ParseEvent(r *http.Request) Event {
	return Event{
		Content:   value(r, "content"),
		EventName: value(r, "eventName"),
		EventDate: value(r, "eventDate"),
		Location:  value(r, "location"),
	}
}

func (Event) messages() map[string]string {
	return map[string]string{
		"content.required":   "Content is required",
		"content.min":        "Content must be at least 5 characters long",
		"eventName.required": "Event name is required",
		"eventDate.required": "Event date is required",
		"eventDate.datetime": "Event date must be a valid date and time",
		"location.required":  "Location is required",
	}
}

type Password struct {
	CurrentPassword string `form:"currentPassword" validate:"required"`
	NewPassword     string `form:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

func ParsePassword(r *http.Request) Password {
	return Password{
		CurrentPassword: r.FormValue("currentPassword"),
		NewPassword:     r.FormValue("newPassword"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
}

func (Password) messages() map[string]string {
	return map[string]string{
		"currentPassword.required": "Current password is required",
		"newPassword.required":     "New password is required",
		"newPassword.min":          "New password must be at least 8 characters",
		"newPassword.nefield":      "New password must differ from the current one",
		"confirmPassword.required": "Please confirm the new password",
		"confirmPassword.eqfield":  "Passwords do not match",
	}
}
