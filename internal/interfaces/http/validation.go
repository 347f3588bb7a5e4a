package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockpro/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON (o query) del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// bindError cuerpo o query que no pasó el parseo o la validación.
type bindError struct {
	message string
	fields  []dto.FieldError
}

func (e *bindError) Error() string { return e.message }

// parseBody decodifica el JSON del cuerpo y valida las etiquetas `validate`.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &bindError{message: "cuerpo inválido: " + err.Error()}
	}
	return check(out)
}

// parseQuery igual que parseBody para los parámetros de consulta.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return &bindError{message: "parámetros inválidos: " + err.Error()}
	}
	return check(out)
}

func check(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &bindError{message: err.Error()}
	}
	fields := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, dto.FieldError{Field: fieldPath(fe), Message: describe(fe)})
	}
	return &bindError{message: "la petición tiene campos inválidos", fields: fields}
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.lines[0].product_id" -> "lines[0].product_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "email inválido"
	case "uuid":
		return "identificador inválido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	}
	return "valor inválido (" + fe.Tag() + ")"
}

const dateOnly = "2006-01-02"

// queryTime acepta RFC3339 o AAAA-MM-DD (medianoche UTC). day indica que llegó solo la fecha.
func queryTime(c *fiber.Ctx, key string) (t *time.Time, day bool, err error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, false, nil
	}
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return &v, false, nil
	}
	if v, err := time.Parse(dateOnly, raw); err == nil {
		return &v, true, nil
	}
	return nil, false, &bindError{
		message: "fecha inválida",
		fields:  []dto.FieldError{{Field: key, Message: "use RFC3339 o AAAA-MM-DD"}},
	}
}

// dateRange lee from/to de la query. Los repositorios filtran created_at < to, así que un
// to con solo fecha se corre al día siguiente para incluir el día nombrado.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, _, err = queryTime(c, "from"); err != nil {
		return nil, nil, err
	}
	var day bool
	if to, day, err = queryTime(c, "to"); err != nil {
		return nil, nil, err
	}
	if to != nil && day {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, &bindError{message: "rango de fechas inválido", fields: []dto.FieldError{{Field: "to", Message: "debe ser posterior a from"}}}
	}
	return from, to, nil
}
