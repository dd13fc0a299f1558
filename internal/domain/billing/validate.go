package billing

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// Validator checks drafts and produces normalised invoice records
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a draft validator that reports fields by their JSON names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate checks the required fields of d and returns the normalised record.
// Every derived field is recomputed; timestamps are left for the store.
func (v *Validator) Validate(d Draft) (entity.InvoiceRecord, error) {
	if err := v.validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return entity.InvoiceRecord{}, toValidationError(verrs)
		}
		return entity.InvoiceRecord{}, err
	}

	record := Normalize(d)
	if math.IsInf(record.Total, 0) || math.IsNaN(record.Total) {
		return entity.InvoiceRecord{}, &entity.ValidationError{Fields: []entity.FieldError{
			{Field: "total", Reason: "is out of range"},
		}}
	}
	return record, nil
}

// Normalize converts d into a record without checking required fields
func Normalize(d Draft) entity.InvoiceRecord {
	record := entity.InvoiceRecord{
		InvoiceNumber: d.InvoiceNumber,
		Date:          d.Date,
		DueDate:       d.DueDate,
		Customer: entity.Customer{
			Name:    d.Customer.Name,
			Address: d.Customer.Address,
			Phone:   d.Customer.Phone,
		},
		Items:   make([]entity.LineItem, 0, len(d.Items)),
		TaxRate: d.TaxRate.Float(),
	}

	for _, item := range d.Items {
		record.Items = append(record.Items, entity.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity.Float(),
			UnitPrice:   item.UnitPrice.Float(),
		})
	}

	Recompute(&record)
	return record
}

func toValidationError(verrs validator.ValidationErrors) *entity.ValidationError {
	out := &entity.ValidationError{Fields: make([]entity.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out.Fields = append(out.Fields, entity.FieldError{
			Field:  field,
			Reason: reason(fe.Tag()),
		})
	}
	return out
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "must contain at least one item"
	default:
		return "is invalid"
	}
}
