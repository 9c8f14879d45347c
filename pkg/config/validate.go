package config

import (
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("semver_constraint", func(fl validator.FieldLevel) bool {
		_, err := semver.NewConstraint(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("go_duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}
