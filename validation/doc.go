// Package validation checks request payloads and maps failures onto
// INVALID_INPUT errors.
//
// Struct tags cover JSON bodies:
//
//	type loginRequest struct {
//	    Username string `json:"username" validate:"required,max=128"`
//	}
//	if err := validation.Validate(req); err != nil { ... }
//
// The Validator builder covers multipart form fields, which arrive as loose
// strings:
//
//	err := validation.New().
//	    OneOf("level", level, []string{"beginner", "intermediate"}).
//	    MaxLength("scenario", scenario, 200).
//	    Error()
package validation
