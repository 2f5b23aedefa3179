package service

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/upstream"
)

// ErrValidation indicates a form was rejected before any backend call.
var ErrValidation = errors.New("form validation failed")

const isoMillisLayout = "2006-01-02T15:04:05.000Z"

var deadlineLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var fieldMessages = map[string]string{
	"email.required":         "Invalid email address.",
	"email.email":            "Invalid email address.",
	"password.required":      "Password must be minimum 6 characters long.",
	"password.min":           "Password must be minimum 6 characters long.",
	"role.required":          "Role is required",
	"role.oneof":             "Role must be student or instructor",
	"title.required":         "Title is required",
	"description.required":   "Description is required",
	"deadline.required":      "Deadline is required",
	"deadline.deadline":      "Deadline must be a valid date and time",
	"status.required":        "Status is required",
	"status.oneof":           "Status must be pending, reviewed or rejected",
	"feedback.required":      "Feedback is required",
	"submissionUrl.required": "SubmissionUrl is required",
	"note.required":          "note is required",
}

// RegisterValidations installs the custom rules and json field naming used by the dashboard forms.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	return v.RegisterValidation("deadline", func(fl validator.FieldLevel) bool {
		_, err := ParseDeadline(fl.Field().String(), time.UTC)
		return err == nil
	})
}

// ParseDeadline interprets a datetime-local input in loc. Inputs carrying an offset keep it.
func ParseDeadline(input string, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range deadlineLayouts {
		if parsed, err := time.ParseInLocation(layout, input, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q", input)
}

// FormatISO renders t the way browsers serialise dates: UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillisLayout)
}

// fieldErrors validates the form and maps failures to inline messages keyed by json field name.
func fieldErrors(v *validator.Validate, form interface{}) (map[string]string, error) {
	err := v.Struct(form)
	if err == nil {
		return nil, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, err
	}

	result := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		if _, exists := result[field]; exists {
			continue
		}
		message, ok := fieldMessages[field+"."+fieldErr.Tag()]
		if !ok {
			message = fmt.Sprintf("%s is invalid", field)
		}
		result[field] = message
	}
	return result, nil
}

func invalidForm(values, errs map[string]string) dto.FormResult {
	return dto.FormResult{
		State:       dto.FormStateEditable,
		Values:      values,
		FieldErrors: errs,
	}
}

func failedForm(values map[string]string, message string) dto.FormResult {
	return dto.FormResult{
		State:  dto.FormStateEditable,
		Values: values,
		Toast:  &dto.Toast{Level: dto.ToastError, Message: message},
	}
}

func submittedForm(message, fallback string) dto.FormResult {
	if message == "" {
		message = fallback
	}
	return dto.FormResult{
		State: dto.FormStateSubmitted,
		Toast: &dto.Toast{Level: dto.ToastSuccess, Message: message},
	}
}

// textSanitizer strips markup from backend-supplied text before it is displayed.
type textSanitizer struct {
	policy *bluemonday.Policy
}

func newTextSanitizer() textSanitizer {
	return textSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s textSanitizer) Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(input)))
}

func (s textSanitizer) ErrorMessage(err error) string {
	message := s.Text(upstream.Message(err))
	if message == "" {
		return "Something went wrong"
	}
	return message
}

func trim(values ...*string) {
	for _, value := range values {
		*value = strings.TrimSpace(*value)
	}
}
