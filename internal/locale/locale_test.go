package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		input string
		want  language.Tag
	}{
		{"pt-BR", language.BrazilianPortuguese},
		{"pt", language.BrazilianPortuguese},
		{"en", language.English},
		{"en-US", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cat, err := Lookup(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cat.Tag)
		})
	}
}

func TestLookup_Rejects(t *testing.T) {
	_, err := Lookup("not a tag!")
	assert.Error(t, err)

	_, err = Lookup("ja")
	assert.Error(t, err)
}

func TestCatalogFormatting(t *testing.T) {
	at := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)

	en, err := Lookup("en")
	require.NoError(t, err)
	assert.Equal(t, "Automatically generated on 09/03/2026", en.GeneratedOn(at))
	assert.Equal(t, "Pre-consultation intake: Ana Souza (09-03-2026)", en.Subject("Ana Souza", "09-03-2026"))
	assert.Equal(t, "Email: Not informed", en.Label(en.LabelEmail, en.NotInformed))

	pt := Default()
	assert.Equal(t, "Gerado automaticamente em 09/03/2026", pt.GeneratedOn(at))
	assert.Equal(t, "Pré-consulta de Ana Souza (09-03-2026)", pt.Subject("Ana Souza", "09-03-2026"))
}
