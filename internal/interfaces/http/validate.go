package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator usa el nombre json de cada campo en los errores.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON (cuerpo vacío permitido) y valida las etiquetas validate.
// Si devuelve handled=true la respuesta ya fue escrita.
func parseBody(c *fiber.Ctx, out any) (handled bool, err error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return true, badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	if err := validate.Struct(out); err != nil {
		return true, validationFailed(c, err)
	}
	return false, nil
}
