// Package validation implements the local field checks run before any
// network call. Forms are checked with go-playground/validator tags and
// failures are returned as Errors, a field -> message map.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
)

// ErrInvalid matches every Errors value via errors.Is.
var ErrInvalid = errors.New("validation failed")

// MinPasswordLength applies to registration, profile and reset flows.
const MinPasswordLength = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

// newValidator names fields by their json tag and adds the notblank and
// mailbox rules the forms below rely on.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		panic(err)
	}
	return v
}

const msgShortPassword = "Password must be at least 6 characters"

// messages is keyed by "<field>.<failed tag>".
var messages = map[string]string{
	"username.notblank":        "Username is required",
	"email.notblank":           "Email is required",
	"email.mailbox":            "Email is invalid",
	"password.notblank":        "Password is required",
	"password.min":             msgShortPassword,
	"currentPassword.notblank": "Current password is required to set a new password",
	"newPassword.min":          msgShortPassword,
	"confirmPassword.eqfield":  "Passwords do not match",
	"name.notblank":            "Name is required",
	"subject.notblank":         "Subject is required",
	"message.notblank":         "Message is required",
	"query.notblank":           "Query is required",
	"token.notblank":           "Reset token is required",
}

// check validates a tagged struct and turns the failures into Errors.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fails validator.ValidationErrors
	if !errors.As(err, &fails) {
		return err
	}
	e := Errors{}
	for _, fe := range fails {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		e.Add(fe.Field(), msg)
	}
	return e.Err()
}

// Errors maps a field name to its message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

// Err returns nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Add records msg for field unless the field already has one.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return validate.Var(s, "mailbox") == nil
}

func Credentials(c models.Credentials) error {
	return check(struct {
		Email    string `json:"email" validate:"notblank"`
		Password string `json:"password" validate:"notblank"`
	}{c.Email, c.Password})
}

func Registration(r models.Registration) error {
	return check(struct {
		Username string `json:"username" validate:"notblank"`
		Email    string `json:"email" validate:"notblank,mailbox"`
		Password string `json:"password" validate:"notblank,min=6"`
	}{r.Username, r.Email, r.Password})
}

// ProfileUpdate checks the password fields only when a new password is set.
func ProfileUpdate(p models.ProfileUpdate) error {
	base := check(struct {
		Username string `json:"username" validate:"notblank"`
		Email    string `json:"email" validate:"notblank,mailbox"`
	}{p.Username, p.Email})
	if !p.ChangesPassword() {
		return base
	}

	pwd := check(struct {
		CurrentPassword string `json:"currentPassword" validate:"notblank"`
		NewPassword     string `json:"newPassword" validate:"min=6"`
		ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
	}{p.CurrentPassword, p.NewPassword, p.ConfirmPassword})

	e := Errors{}
	for _, err := range []error{base, pwd} {
		for k, v := range Fields(err) {
			e.Add(k, v)
		}
	}
	return e.Err()
}

func Contact(f models.ContactForm) error {
	return check(struct {
		Name    string `json:"name" validate:"notblank"`
		Email   string `json:"email" validate:"notblank,mailbox"`
		Subject string `json:"subject" validate:"notblank"`
		Message string `json:"message" validate:"notblank"`
	}{f.Name, f.Email, f.Subject, f.Message})
}

// Query rejects empty or whitespace-only search queries.
func Query(q string) error {
	return check(struct {
		Query string `json:"query" validate:"notblank"`
	}{q})
}

func Email(s string) error {
	return check(struct {
		Email string `json:"email" validate:"notblank,mailbox"`
	}{s})
}

// PasswordReset checks the reset token and the new password.
func PasswordReset(token, password string) error {
	return check(struct {
		Token    string `json:"token" validate:"notblank"`
		Password string `json:"password" validate:"min=6"`
	}{token, password})
}

// OneOf checks that value is one of allowed.
func OneOf(field, value string, allowed []string) error {
	if len(allowed) > 0 && validate.Var(value, "oneof="+strings.Join(allowed, " ")) == nil {
		return nil
	}
	return Errors{field: "must be one of " + strings.Join(allowed, ", ")}
}
// Fields extracts the per-field messages from err, or nil.
func Fields(err error) Errors {
	var ve Errors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
