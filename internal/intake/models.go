package intake

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

// RawSubmission is the intake form payload exactly as posted.
type RawSubmission struct {
	FullName           string     `json:"fullName"`
	BirthDate          string     `json:"birthDate"`
	CPF                string     `json:"cpf"`
	Address            string     `json:"address"`
	City               string     `json:"city"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	Reason             string     `json:"reason"`
	Conditions         StringList `json:"conditions"`
	OtherConditionText string     `json:"otherConditionText"`
	Procedures         string     `json:"procedures"`
	Biopsy             string     `json:"biopsy"`
	BiopsyResult       string     `json:"biopsyResult"`
	SourceChannel      string     `json:"sourceChannel"`
	OtherSource        string     `json:"otherSource"`
}

// StringList accepts either a JSON string or an array of strings. Form
// encoders send a single checked box as a bare string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// Submission is a validated, normalized intake record. It is built only by
// Validate and never mutated afterwards.
type Submission struct {
	FullName       string
	BirthDate      time.Time
	CPF            string // 11 digits
	Address        string
	City           string
	Phone          string // 10 or 11 digits
	Email          string // empty when not informed
	Reason         string
	Conditions     []string
	OtherCondition string
	Procedures     string
	Biopsy         string
	BiopsyResult   string // empty unless HasPriorBiopsy
	SourceChannel  string
	OtherSource    string // empty unless an "other" channel
}

// HasEmail reports whether the patient informed an email address.
func (s *Submission) HasEmail() bool {
	return s.Email != ""
}

// HasPriorBiopsy reports whether the biopsy answer indicates a biopsy was
// already performed.
func (s *Submission) HasPriorBiopsy() bool {
	return IsPriorBiopsy(s.Biopsy)
}

// IsOtherSource reports whether the referral channel is "other".
func (s *Submission) IsOtherSource() bool {
	return IsOtherChannel(s.SourceChannel)
}

var negativeBiopsyAnswers = map[string]struct{}{
	"não": {}, "nao": {}, "no": {}, "not": {}, "n": {}, "false": {}, "0": {},
	"nunca": {}, "never": {}, "none": {}, "nenhuma": {},
}

var otherChannels = map[string]struct{}{
	"other": {}, "outro": {}, "outros": {},
}

// IsPriorBiopsy reports whether a biopsy answer means "already performed".
// Any non-blank answer counts unless its first word is a clear negative.
func IsPriorBiopsy(answer string) bool {
	words := strings.FieldsFunc(strings.ToLower(answer), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return false
	}
	_, negative := negativeBiopsyAnswers[words[0]]
	return !negative
}

// IsOtherChannel reports whether a referral channel value means "other".
func IsOtherChannel(channel string) bool {
	_, ok := otherChannels[strings.ToLower(strings.TrimSpace(channel))]
	return ok
}

// OutcomeStatus is the terminal state of a dispatch.
type OutcomeStatus string

const (
	OutcomeSent   OutcomeStatus = "sent"
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the result of one dispatch attempt.
type Outcome struct {
	Status OutcomeStatus
	Cause  error
}

// Sent builds a successful outcome.
func Sent() Outcome {
	return Outcome{Status: OutcomeSent}
}

// Failed builds a failed outcome carrying its cause.
func Failed(cause error) Outcome {
	return Outcome{Status: OutcomeFailed, Cause: cause}
}

// Err returns nil for a sent outcome and the cause otherwise.
func (o Outcome) Err() error {
	if o.Status == OutcomeSent {
		return nil
	}
	return o.Cause
}
