package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

func ValidateCreateEnquiryInput(input CreateEnquiryInput) []ValidationError {
	var errors []ValidationError

	name := strings.TrimSpace(input.BuyerName)
	if name == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if utf8.RuneCountInString(name) < 3 {
		errors = append(errors, ValidationError{"name", "must have at least 3 characters"})
	} else if utf8.RuneCountInString(name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.BuyerEmail) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.BuyerEmail); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.BuyerPhone) != "" && !isValidPhoneNumber(input.BuyerPhone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	msg := strings.TrimSpace(input.Message)
	if msg == "" {
		errors = append(errors, ValidationError{"message", "is required"})
	} else if utf8.RuneCountInString(msg) > 2000 {
		errors = append(errors, ValidationError{"message", "must not exceed 2000 characters"})
	}

	return errors
}

func ValidateStartCheckoutInput(input StartCheckoutInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.PackID) == "" {
		errors = append(errors, ValidationError{"pack_id", "is required"})
	} else if _, err := entity.FindCreditPack(input.PackID); err != nil {
		errors = append(errors, ValidationError{"pack_id", "is not a known credit pack"})
	}

	if input.CpfCnpj != "" {
		n := len(nonDigits.ReplaceAllString(input.CpfCnpj, ""))
		if n != 11 && n != 14 {
			errors = append(errors, ValidationError{"cpf_cnpj", "must have 11 or 14 digits"})
		}
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 15
}

func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
