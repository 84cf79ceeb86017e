package intake

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"intake/internal/locale"
	pstrings "intake/pkg/platform/strings"
)

// Field names as posted by the form. Validation errors reference them so the
// form can highlight the offending input.
const (
	FieldFullName  = "fullName"
	FieldBirthDate = "birthDate"
	FieldCPF       = "cpf"
	FieldPhone     = "phone"
	FieldEmail     = "email"
	FieldReason    = "reason"
)

const (
	minNameLength   = 3
	minReasonLength = 10
)

var birthDateLayouts = []string{"2006-01-02", locale.DateLayout}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is one user-correctable problem with a submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every failed rule in field declaration order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate checks every rule independently and returns either a normalized
// Submission or ValidationErrors, never both. today is compared by calendar
// date in its own location.
func Validate(raw RawSubmission, today time.Time, msgs locale.Catalog) (*Submission, error) {
	var errs ValidationErrors
	fail := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	name := strings.TrimSpace(raw.FullName)
	if utf8.RuneCountInString(name) < minNameLength {
		fail(FieldFullName, msgs.ErrName)
	}

	birth, ok := ParseBirthDate(raw.BirthDate, today)
	if !ok {
		fail(FieldBirthDate, msgs.ErrBirthDate)
	}

	if !ValidCPF(raw.CPF) {
		fail(FieldCPF, msgs.ErrCPF)
	}

	if !ValidPhone(raw.Phone) {
		fail(FieldPhone, msgs.ErrPhone)
	}

	email := strings.TrimSpace(raw.Email)
	if !ValidEmail(email) {
		fail(FieldEmail, msgs.ErrEmail)
	}

	reason := strings.TrimSpace(raw.Reason)
	if utf8.RuneCountInString(reason) < minReasonLength {
		fail(FieldReason, msgs.ErrReason)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	sub := &Submission{
		FullName:       name,
		BirthDate:      birth,
		CPF:            pstrings.Digits(raw.CPF),
		Address:        strings.TrimSpace(raw.Address),
		City:           strings.TrimSpace(raw.City),
		Phone:          pstrings.Digits(raw.Phone),
		Email:          email,
		Reason:         reason,
		Conditions:     pstrings.CleanList(raw.Conditions),
		OtherCondition: strings.TrimSpace(raw.OtherConditionText),
		Procedures:     strings.TrimSpace(raw.Procedures),
		Biopsy:         strings.TrimSpace(raw.Biopsy),
		SourceChannel:  strings.TrimSpace(raw.SourceChannel),
	}
	if sub.HasPriorBiopsy() {
		sub.BiopsyResult = strings.TrimSpace(raw.BiopsyResult)
	}
	if sub.IsOtherSource() {
		sub.OtherSource = strings.TrimSpace(raw.OtherSource)
	}
	return sub, nil
}

// ParseBirthDate parses YYYY-MM-DD or DD/MM/YYYY and requires the date to be
// strictly before today's calendar date.
func ParseBirthDate(value string, today time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range birthDateLayouts {
		d, err := time.ParseInLocation(layout, value, today.Location())
		if err != nil {
			continue
		}
		y, m, day := today.Date()
		if !d.Before(time.Date(y, m, day, 0, 0, 0, 0, today.Location())) {
			return time.Time{}, false
		}
		return d, true
	}
	return time.Time{}, false
}

// ValidCPF reports whether value, after stripping non-digits, is an 11-digit
// CPF whose two modulus-11 check digits match.
func ValidCPF(value string) bool {
	cpf := pstrings.Digits(value)
	if len(cpf) != 11 || allSame(cpf) {
		return false
	}
	return checkDigit(cpf[:9]) == int(cpf[9]-'0') &&
		checkDigit(cpf[:10]) == int(cpf[10]-'0')
}

// checkDigit weights digits from len+1 down to 2 and maps remainders 10 and
// 11 to 0.
func checkDigit(digits string) int {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}
	r := (sum * 10) % 11
	if r == 10 || r == 11 {
		return 0
	}
	return r
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// ValidPhone reports whether value holds an area code plus an 8 or 9 digit
// subscriber number.
func ValidPhone(value string) bool {
	n := len(pstrings.Digits(value))
	return n == 10 || n == 11
}

// ValidEmail reports whether value is empty or shaped like local@domain.tld.
func ValidEmail(value string) bool {
	if value == "" {
		return true
	}
	return emailPattern.MatchString(value)
}
