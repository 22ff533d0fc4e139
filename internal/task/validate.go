package task

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field length limits, applied after trimming.
const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
)

// Validation messages. These are the user-visible strings carried in
// failure envelopes, so they are defined once here.
const (
	msgTitleRequired       = "Title is required and cannot be empty"
	msgTitleEmpty          = "Title cannot be empty"
	msgDescriptionRequired = "Description is required and cannot be empty"
	msgDescriptionEmpty    = "Description cannot be empty"
)

var msgTitleTooLong = fmt.Sprintf("Title cannot exceed %d characters", TitleMaxLen)
var msgDescriptionTooLong = fmt.Sprintf("Description cannot exceed %d characters", DescriptionMaxLen)
var msgStatusInvalid = fmt.Sprintf("Status must be one of: %s, %s, %s",
	StatusPending, StatusInProgress, StatusCompleted)

// CreateInput is the raw create payload as received from a client.
// Status may be empty, in which case it defaults to pending.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// CreateFields is a validated, normalized create payload: title and
// description are trimmed and the status is a valid enum member.
type CreateFields struct {
	Title       string
	Description string
	Status      Status
}

// UpdateInput is the raw update payload. Nil pointers mean the field
// was absent from the request and should be left unchanged.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Patch is a validated partial update. Nil fields are left unchanged;
// non-nil string fields are already trimmed.
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
}

// ValidateCreate checks and normalizes a create payload.
//
// Title and description are required and must be 1-100 / 1-500
// characters after trimming. An empty status defaults to pending; any
// other value must be exactly one of the enum literals.
//
// On failure the returned error is a *ValidationError whose messages
// are ordered: title first, then description, then status.
func ValidateCreate(in CreateInput) (CreateFields, error) {
	var msgs []string

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		msgs = append(msgs, msgTitleRequired)
	case utf8.RuneCountInString(title) > TitleMaxLen:
		msgs = append(msgs, msgTitleTooLong)
	}

	description := strings.TrimSpace(in.Description)
	switch {
	case description == "":
		msgs = append(msgs, msgDescriptionRequired)
	case utf8.RuneCountInString(description) > DescriptionMaxLen:
		msgs = append(msgs, msgDescriptionTooLong)
	}

	status := StatusPending
	if in.Status != "" {
		parsed, ok := ParseStatus(in.Status)
		if !ok {
			msgs = append(msgs, msgStatusInvalid)
		} else {
			status = parsed
		}
	}

	if len(msgs) > 0 {
		return CreateFields{}, &ValidationError{Messages: msgs}
	}

	return CreateFields{
		Title:       title,
		Description: description,
		Status:      status,
	}, nil
}

func (in UpdateInput) isEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil
}

// ValidateUpdate checks and normalizes an update payload.
//
// Fields that are nil are left unchanged. Provided title/description
// values must be non-empty after trimming and within the length limits;
// a provided status must be a valid enum literal. If the payload
// supplies no fields at all, ErrEmptyUpdate is returned rather than a
// field-level validation failure.
func ValidateUpdate(in UpdateInput) (Patch, error) {
	if in.isEmpty() {
		return Patch{}, ErrEmptyUpdate
	}

	var msgs []string
	var patch Patch

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		switch {
		case title == "":
			msgs = append(msgs, msgTitleEmpty)
		case utf8.RuneCountInString(title) > TitleMaxLen:
			msgs = append(msgs, msgTitleTooLong)
		default:
			patch.Title = &title
		}
	}

	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		switch {
		case description == "":
			msgs = append(msgs, msgDescriptionEmpty)
		case utf8.RuneCountInString(description) > DescriptionMaxLen:
			msgs = append(msgs, msgDescriptionTooLong)
		default:
			patch.Description = &description
		}
	}

	if in.Status != nil {
		status, ok := ParseStatus(*in.Status)
		if !ok {
			msgs = append(msgs, msgStatusInvalid)
		} else {
			patch.Status = &status
		}
	}

	if len(msgs) > 0 {
		return Patch{}, &ValidationError{Messages: msgs}
	}

	return patch, nil
}
