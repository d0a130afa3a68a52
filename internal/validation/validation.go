// Package validation registers the dashboard's enum tags on gin's validator engine.
package validation

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"whatsapp_dashboard/internal/models"
)

var ErrUnexpectedEngine = errors.New("validation: gin binding engine is not validator/v10")

// Register installs wa_event, wa_role, wa_platform and wa_msgtype. It must run before
// the router binds its first request.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return ErrUnexpectedEngine
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"wa_event":    enum(models.EventTypes),
		"wa_role":     enum(models.UserRoles),
		"wa_platform": enum(models.Platforms),
		"wa_msgtype": enum([]models.MessageType{
			models.MessageText, models.MessageImage, models.MessageVideo, models.MessageAudio, models.MessageDocument,
		}),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func enum[T ~string](allowed []T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return lo.Contains(allowed, T(fl.Field().String()))
	}
}
