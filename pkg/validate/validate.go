package validate

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator registers domain rules on top of validator/v10.
// "futureorpresent" accepts zero time so that "required" stays the only
// guard for missing values.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("futureorpresent", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok || t.IsZero() {
			return true
		}
		return !t.Before(time.Now().Truncate(time.Second))
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
