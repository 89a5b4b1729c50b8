package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"carebook/pkg/logger"
	"carebook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var clockTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type DoctorValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDoctorValidator(log *logger.Logger) *DoctorValidator {
	v := validator.New()

	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clock_time' validator", "error", err)
	}
	if err := v.RegisterValidation("weekday_keys", validateWeekdayKeys); err != nil {
		log.Fatal("Failed to register 'weekday_keys' validator", "error", err)
	}

	log.Info("Doctor validator initialized successfully")

	return &DoctorValidator{
		validate: v,
		logger:   log,
	}
}

func validateClockTime(fl validator.FieldLevel) bool {
	return clockTimeRegex.MatchString(fl.Field().String())
}

func validateWeekdayKeys(fl validator.FieldLevel) bool {
	value := fl.Field()
	if value.Kind() != reflect.Map {
		return false
	}

	valid := map[string]bool{
		string(model.Sunday):    true,
		string(model.Monday):    true,
		string(model.Tuesday):   true,
		string(model.Wednesday): true,
		string(model.Thursday):  true,
		string(model.Friday):    true,
		string(model.Saturday):  true,
	}

	for _, key := range value.MapKeys() {
		if !valid[key.String()] {
			return false
		}
	}
	return true
}

func (v *DoctorValidator) Validate(doctor *model.Doctor) error {
	if err := v.validate.Struct(doctor); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateWindows(doctor.WorkingHours)
}

func (v *DoctorValidator) ValidateUpdate(updates *model.DoctorUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if updates.WorkingHours != nil {
		return v.validateWindows(*updates.WorkingHours)
	}
	return nil
}

func (v *DoctorValidator) ValidateToggle(toggle *model.AvailabilityToggle) error {
	if err := v.validate.Struct(toggle); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// validateWindows checks that each day's window is non-empty. Times are
// zero-padded "HH:MM", so string comparison is temporal comparison.
func (v *DoctorValidator) validateWindows(hours map[model.Weekday]model.DayHours) error {
	var validationErrors ValidationErrors

	for day, window := range hours {
		if window.End <= window.Start {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fmt.Sprintf("WorkingHours[%s]", day),
				Message: fmt.Sprintf("end %s must be after start %s", window.End, window.Start),
			})
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func (v *DoctorValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be a phone number in E.164 format", err.Field())
		case "clock_time":
			message = fmt.Sprintf("%s must be a zero-padded HH:MM time (e.g., 09:30)", err.Field())
		case "weekday_keys":
			message = fmt.Sprintf("%s keys must be lowercase weekday names", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
