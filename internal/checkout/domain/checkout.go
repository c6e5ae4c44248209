package domain

import (
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	orderDomain "github.com/ridloal/e-commerce-storefront/internal/order/domain"
)

// CheckoutRequest is the checkout form. Card fields are only checked when
// paying by credit card.
type CheckoutRequest struct {
	FirstName     string                    `json:"firstName" binding:"required"`
	LastName      string                    `json:"lastName" binding:"required"`
	Email         string                    `json:"email" binding:"required,email"`
	Address       string                    `json:"address" binding:"required"`
	Address2      string                    `json:"address2"`
	City          string                    `json:"city" binding:"required"`
	State         string                    `json:"state" binding:"required"`
	ZipCode       string                    `json:"zipCode" binding:"required"`
	Country       string                    `json:"country" binding:"required"`
	PaymentMethod orderDomain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=creditCard razorpay"`
	CardName      string                    `json:"cardName"`
	CardNumber    string                    `json:"cardNumber"`
	ExpiryDate    string                    `json:"expiryDate"`
	CVV           string                    `json:"cvv"`
}

// Normalize trims every field so whitespace-only input counts as missing.
func (r CheckoutRequest) Normalize() CheckoutRequest {
	for _, f := range []*string{
		&r.FirstName, &r.LastName, &r.Email, &r.Address, &r.Address2, &r.City,
		&r.State, &r.ZipCode, &r.Country, &r.CardName, &r.CardNumber, &r.ExpiryDate, &r.CVV,
	} {
		*f = strings.TrimSpace(*f)
	}
	r.PaymentMethod = orderDomain.PaymentMethod(strings.TrimSpace(string(r.PaymentMethod)))
	return r
}

func (r CheckoutRequest) ShippingAddress() orderDomain.ShippingAddress {
	return orderDomain.ShippingAddress{
		Name:       r.FirstName + " " + r.LastName,
		Line1:      r.Address,
		Line2:      r.Address2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.ZipCode,
		Country:    r.Country,
	}
}

var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cvvPattern        = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// CardStructLevel checks the card fields of a credit card checkout.
// Register it on any validator that validates CheckoutRequest.
func CardStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)
	if req.PaymentMethod != orderDomain.PaymentCreditCard {
		return
	}
	if strings.TrimSpace(req.CardName) == "" {
		sl.ReportError(req.CardName, "cardName", "CardName", "required", "")
	}
	if !cardNumberPattern.MatchString(req.CardNumber) {
		sl.ReportError(req.CardNumber, "cardNumber", "CardNumber", "card_number", "")
	}
	if !expiryPattern.MatchString(req.ExpiryDate) {
		sl.ReportError(req.ExpiryDate, "expiryDate", "ExpiryDate", "card_expiry", "")
	}
	if !cvvPattern.MatchString(req.CVV) {
		sl.ReportError(req.CVV, "cvv", "CVV", "card_cvv", "")
	}
}

type fieldMessage struct {
	name    string
	message string
}

var fieldMessages = map[string]fieldMessage{
	"FirstName":     {"firstName", "First name is required"},
	"LastName":      {"lastName", "Last name is required"},
	"Email":         {"email", "Valid email is required"},
	"Address":       {"address", "Address is required"},
	"City":          {"city", "City is required"},
	"State":         {"state", "State is required"},
	"ZipCode":       {"zipCode", "Zip code is required"},
	"Country":       {"country", "Country is required"},
	"PaymentMethod": {"paymentMethod", "Payment method must be creditCard or razorpay"},
	"CardName":      {"cardName", "Name on card is required"},
	"CardNumber":    {"cardNumber", "Valid 16-digit card number is required"},
	"ExpiryDate":    {"expiryDate", "Valid expiry date (MM/YY) is required"},
	"CVV":           {"cvv", "Valid CVV is required"},
}

// ValidationError maps form field names to the message shown next to them.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid checkout form: " + strings.Join(names, ", ")
}

// NewValidationError converts validator output into per-field messages.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fm, ok := fieldMessages[fe.StructField()]
		if !ok {
			fm = fieldMessage{name: fe.Field(), message: "Invalid value"}
		}
		if _, seen := fields[fm.name]; !seen {
			fields[fm.name] = fm.message
		}
	}
	return &ValidationError{Fields: fields}
}
