package forms

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"news_portal/internal/models"

	"github.com/go-playground/validator/v10"
)

// NonField - ключ ошибок, не относящихся к конкретному полю.
const NonField = "__all__"

// Form хранит присланные значения и ошибки по полям.
type Form struct {
	Values url.Values
	Errors map[string][]string
}

func New(values url.Values) *Form {
	if values == nil {
		values = url.Values{}
	}
	return &Form{Values: values, Errors: map[string][]string{}}
}

// Get возвращает значение поля без пробелов по краям.
func (f *Form) Get(field string) string {
	return strings.TrimSpace(f.Values.Get(field))
}

func (f *Form) Set(field, value string) {
	f.Values.Set(field, value)
}

func (f *Form) AddError(field, message string) {
	f.Errors[field] = append(f.Errors[field], message)
}

func (f *Form) FieldErrors(field string) []string {
	return f.Errors[field]
}

func (f *Form) NonFieldErrors() []string {
	return f.Errors[NonField]
}

func (f *Form) HasError(field, message string) bool {
	for _, m := range f.Errors[field] {
		if m == message {
			return true
		}
	}
	return false
}

func (f *Form) Valid() bool {
	return len(f.Errors) == 0
}

// Validate проверяет v по тегам validate и переносит нарушения в ошибки формы.
// Поля без имени формы попадают в NonField.
func (f *Form) Validate(v any) {
	err := models.Validate(v)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.AddError(NonField, err.Error())
		return
	}
	for _, fe := range verrs {
		f.AddError(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле."
	case "max":
		return fmt.Sprintf("Убедитесь, что это значение содержит не более %s символов.", fe.Param())
	case "url":
		return "Введите правильный URL."
	case "slug":
		return "Значение должно состоять только из латинских букв, цифр, знаков подчёркивания или дефиса."
	}
	return fmt.Sprintf("Некорректное значение (%s).", fe.Tag())
}
