package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^[0-9+()\- ]{10,20}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the account minimum; bcrypt caps input at 72 bytes.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

// ID validates a simple resource identifier (product/category/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Qty parses a quantity string, defaulting to 1 and clamping abuse.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 99 {
		return 99
	}
	return n
}

// Phone accepts digits with common separators, 10 to 20 characters.
func Phone(s string) bool {
	return rePhone.MatchString(strings.TrimSpace(s))
}

// Name validates a displayable name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// ShippingForm is the checkout shipping-address form state.
type ShippingForm struct {
	FullName   string
	Email      string
	Phone      string
	Address    string
	City       string
	Province   string
	PostalCode string
}

// Shipping returns a field -> message map for every invalid field; an empty
// map means the form may be submitted. Pure function, shared by the checkout
// page and the order endpoint.
func Shipping(f ShippingForm) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	if _, ok := Email(f.Email); !ok {
		errs["email"] = "Enter a valid email address"
	}
	if !rePhone.MatchString(strings.TrimSpace(f.Phone)) {
		errs["phone"] = "Enter a valid phone number (at least 10 digits)"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(f.Province) == "" {
		errs["province"] = "Province is required"
	}
	if strings.TrimSpace(f.PostalCode) == "" {
		errs["postalCode"] = "Postal code is required"
	}
	return errs
}
