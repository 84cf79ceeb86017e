// Package locale holds every human-readable string the intake pipeline
// produces, for the two supported languages.
package locale

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DateLayout is the day/month/year layout used by both languages.
const DateLayout = "02/01/2006"

// Catalog is the set of texts for one language.
type Catalog struct {
	Tag language.Tag

	// Document
	Title                string
	LabelName            string
	LabelBirthDate       string
	LabelCPF             string
	LabelAddress         string
	LabelCity            string
	LabelPhone           string
	LabelEmail           string
	NotInformed          string
	HeadingReason        string
	HeadingHistory       string
	None                 string
	LabelOtherConditions string
	LabelProcedures      string
	LabelBiopsy          string
	LabelBiopsyResult    string
	HeadingReferral      string
	LabelSource          string
	LabelSpecification   string
	GeneratedOnFormat    string

	// Mail
	FromName      string
	SubjectFormat string
	MailBody      string

	// HTTP responses
	SuccessMessage   string
	FailureMessage   string
	MethodNotAllowed string

	// Validation
	ErrName      string
	ErrBirthDate string
	ErrCPF       string
	ErrPhone     string
	ErrEmail     string
	ErrReason    string
}

// Label renders "label: value".
func (c Catalog) Label(label, value string) string {
	return label + ": " + value
}

// FormatDate renders t as DD/MM/YYYY.
func (c Catalog) FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// GeneratedOn renders the document footer line for t.
func (c Catalog) GeneratedOn(t time.Time) string {
	return fmt.Sprintf(c.GeneratedOnFormat, c.FormatDate(t))
}

// Subject renders the mail subject for a patient name and date stamp.
func (c Catalog) Subject(fullName, stamp string) string {
	return fmt.Sprintf(c.SubjectFormat, fullName, stamp)
}

var portuguese = Catalog{
	Tag: language.BrazilianPortuguese,

	Title:                "Pré-consulta Nefrológica",
	LabelName:            "Nome",
	LabelBirthDate:       "Data de nascimento",
	LabelCPF:             "CPF",
	LabelAddress:         "Endereço",
	LabelCity:            "Cidade/Estado",
	LabelPhone:           "Telefone",
	LabelEmail:           "E-mail",
	NotInformed:          "Não informado",
	HeadingReason:        "Motivo da Consulta",
	HeadingHistory:       "Histórico Médico",
	None:                 "Nenhuma",
	LabelOtherConditions: "Outras condições",
	LabelProcedures:      "Procedimentos",
	LabelBiopsy:          "Biópsia renal",
	LabelBiopsyResult:    "Resultado",
	HeadingReferral:      "Origem do Contato",
	LabelSource:          "Origem",
	LabelSpecification:   "Especificação",
	GeneratedOnFormat:    "Gerado automaticamente em %s",

	FromName:      "Formulário de Pré-consulta",
	SubjectFormat: "Pré-consulta de %s (%s)",
	MailBody:      "Segue em anexo o PDF da pré-consulta.",

	SuccessMessage:   "E-mail enviado com sucesso!",
	FailureMessage:   "Erro ao enviar PDF.",
	MethodNotAllowed: "Method Not Allowed",

	ErrName:      "Nome deve ter pelo menos 3 caracteres.",
	ErrBirthDate: "Data de nascimento inválida.",
	ErrCPF:       "CPF inválido.",
	ErrPhone:     "Telefone inválido (use DDD e número, ex: (99) 99999-9999).",
	ErrEmail:     "E-mail inválido.",
	ErrReason:    "Motivo da consulta deve ter pelo menos 10 caracteres.",
}

var english = Catalog{
	Tag: language.English,

	Title:                "Nephrology Pre-consultation",
	LabelName:            "Name",
	LabelBirthDate:       "Birth date",
	LabelCPF:             "CPF",
	LabelAddress:         "Address",
	LabelCity:            "City/State",
	LabelPhone:           "Phone",
	LabelEmail:           "Email",
	NotInformed:          "Not informed",
	HeadingReason:        "Consultation Reason",
	HeadingHistory:       "Medical History",
	None:                 "None",
	LabelOtherConditions: "Other conditions",
	LabelProcedures:      "Procedures",
	LabelBiopsy:          "Kidney biopsy",
	LabelBiopsyResult:    "Result",
	HeadingReferral:      "Referral Source",
	LabelSource:          "Source",
	LabelSpecification:   "Specification",
	GeneratedOnFormat:    "Automatically generated on %s",

	FromName:      "Pre-consultation Form",
	SubjectFormat: "Pre-consultation intake: %s (%s)",
	MailBody:      "The pre-consultation PDF is attached.",

	SuccessMessage:   "Email sent successfully!",
	FailureMessage:   "Failed to send PDF.",
	MethodNotAllowed: "Method Not Allowed",

	ErrName:      "Name must have at least 3 characters.",
	ErrBirthDate: "Invalid birth date.",
	ErrCPF:       "Invalid CPF.",
	ErrPhone:     "Invalid phone (use area code and number, e.g. (99) 99999-9999).",
	ErrEmail:     "Invalid email.",
	ErrReason:    "Consultation reason must have at least 10 characters.",
}

var (
	catalogs = []Catalog{portuguese, english}
	matcher  = language.NewMatcher([]language.Tag{portuguese.Tag, english.Tag})
)

// Default returns the pt-BR catalog.
func Default() Catalog {
	return portuguese
}

// Lookup returns the catalog best matching a BCP 47 tag such as "pt-BR",
// "pt" or "en-US". Tags matching neither language are rejected.
func Lookup(tag string) (Catalog, error) {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return Catalog{}, fmt.Errorf("locale: parse %q: %w", tag, err)
	}
	_, idx, confidence := matcher.Match(t)
	if confidence == language.No {
		return Catalog{}, fmt.Errorf("locale: unsupported language %q", tag)
	}
	return catalogs[idx], nil
}
