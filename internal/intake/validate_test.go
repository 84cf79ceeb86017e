package intake

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake/internal/locale"
)

var today = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func validRaw() RawSubmission {
	return RawSubmission{
		FullName:      "Ana Maria Souza",
		BirthDate:     "1980-05-17",
		CPF:           "529.982.247-25",
		Address:       "Rua das Flores, 100",
		City:          "Curitiba/PR",
		Phone:         "(41) 99876-5432",
		Email:         "ana@example.com",
		Reason:        "Creatinina elevada nos últimos exames.",
		Conditions:    StringList{"Hipertensão", "Diabetes"},
		Biopsy:        "Não",
		SourceChannel: "Instagram",
	}
}

func TestValidCPF(t *testing.T) {
	t.Run("accepts published reference numbers", func(t *testing.T) {
		assert.True(t, ValidCPF("529.982.247-25"))
		assert.True(t, ValidCPF("52998224725"))
		assert.True(t, ValidCPF("111.444.777-35"))
	})

	t.Run("rejects flipped check digits", func(t *testing.T) {
		assert.False(t, ValidCPF("529.982.247-35"), "first check digit flipped")
		assert.False(t, ValidCPF("529.982.247-26"), "second check digit flipped")
		assert.False(t, ValidCPF("111.444.777-45"), "first check digit flipped")
		assert.False(t, ValidCPF("111.444.777-34"), "second check digit flipped")
	})

	t.Run("rejects every repeated-digit number", func(t *testing.T) {
		for d := '0'; d <= '9'; d++ {
			cpf := strings.Repeat(string(d), 11)
			assert.False(t, ValidCPF(cpf), cpf)
		}
	})

	t.Run("rejects wrong lengths", func(t *testing.T) {
		assert.False(t, ValidCPF(""))
		assert.False(t, ValidCPF("5299822472"))
		assert.False(t, ValidCPF("529982247250"))
		assert.False(t, ValidCPF("abc.def.ghi-jk"))
	})
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"(41) 3333-4444", true},
		{"4133334444", true},
		{"(41) 99876-5432", true},
		{"41998765432", true},
		{"413333444", false},
		{"419987654321", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.input))
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"a@b.c", true},
		{"ana.souza+clinica@example.com.br", true},
		{"a@b", false},
		{"a.com", false},
		{"a @b.com", false},
		{"@b.com", false},
		{"a@", false},
		{"a@@b.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.input))
		})
	}
}

func TestParseBirthDate(t *testing.T) {
	t.Run("iso and day-first layouts", func(t *testing.T) {
		d, ok := ParseBirthDate("1980-05-17", today)
		require.True(t, ok)
		assert.Equal(t, time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC), d)

		d, ok = ParseBirthDate("17/05/1980", today)
		require.True(t, ok)
		assert.Equal(t, time.Date(1980, 5, 17, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("yesterday is accepted", func(t *testing.T) {
		_, ok := ParseBirthDate("2026-10-13", today)
		assert.True(t, ok)
	})

	t.Run("today and future are rejected", func(t *testing.T) {
		_, ok := ParseBirthDate("2026-10-14", today)
		assert.False(t, ok)
		_, ok = ParseBirthDate("2030-01-01", today)
		assert.False(t, ok)
	})

	t.Run("unparseable is rejected", func(t *testing.T) {
		for _, v := range []string{"", "yesterday", "2026-13-01", "31/02/1990"} {
			_, ok := ParseBirthDate(v, today)
			assert.False(t, ok, v)
		}
	})
}

func TestValidate_NormalizesValidSubmission(t *testing.T) {
	raw := validRaw()
	raw.FullName = "  Ana Maria Souza  "
	raw.Email = "  ana@example.com "
	raw.Conditions = StringList{" Hipertensão ", "", "hipertensão", "Diabetes"}
	raw.BiopsyResult = "ignored without a prior biopsy"
	raw.OtherSource = "ignored without other channel"

	sub, err := Validate(raw, today, locale.Default())
	require.NoError(t, err)

	assert.Equal(t, "Ana Maria Souza", sub.FullName)
	assert.Equal(t, "52998224725", sub.CPF)
	assert.Equal(t, "41998765432", sub.Phone)
	assert.Equal(t, "ana@example.com", sub.Email)
	assert.Equal(t, []string{"Hipertensão", "Diabetes"}, sub.Conditions)
	assert.Empty(t, sub.BiopsyResult)
	assert.Empty(t, sub.OtherSource)
}

func TestValidate_KeepsConditionalFields(t *testing.T) {
	raw := validRaw()
	raw.Biopsy = "Sim"
	raw.BiopsyResult = " Nefropatia por IgA "
	raw.SourceChannel = "other"
	raw.OtherSource = " Indicação do Dr. Paulo "

	sub, err := Validate(raw, today, locale.Default())
	require.NoError(t, err)
	assert.Equal(t, "Nefropatia por IgA", sub.BiopsyResult)
	assert.Equal(t, "Indicação do Dr. Paulo", sub.OtherSource)
}

func TestIsPriorBiopsy(t *testing.T) {
	tests := map[string]bool{
		"Sim":           true,
		"Já realizei":   true,
		"ja_fiz":        true,
		"Y":             true,
		"performed":     true,
		"Não":           false,
		"nao realizei":  false,
		"No.":           false,
		"NUNCA":         false,
		"false":         false,
		"":              false,
		"   ":           false,
		"not performed": false,
	}
	for answer, want := range tests {
		assert.Equal(t, want, IsPriorBiopsy(answer), "answer %q", answer)
	}
}

func TestValidate_KeepsBiopsyResultForUnlistedAnswer(t *testing.T) {
	raw := validRaw()
	raw.Biopsy = "Já realizei"
	raw.BiopsyResult = " GESF "

	sub, err := Validate(raw, today, locale.Default())
	require.NoError(t, err)
	assert.Equal(t, "GESF", sub.BiopsyResult)
}

func TestValidate_CollectsAllErrorsInFieldOrder(t *testing.T) {
	raw := RawSubmission{
		FullName:  " Al ",
		BirthDate: "2099-01-01",
		CPF:       "111.111.111-11",
		Phone:     "12345",
		Email:     "a@b",
		Reason:    "  short  ",
	}
	msgs := locale.Default()

	sub, err := Validate(raw, today, msgs)
	require.Error(t, err)
	assert.Nil(t, sub, "no partial submission on failure")

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, ValidationErrors{
		{Field: FieldFullName, Message: msgs.ErrName},
		{Field: FieldBirthDate, Message: msgs.ErrBirthDate},
		{Field: FieldCPF, Message: msgs.ErrCPF},
		{Field: FieldPhone, Message: msgs.ErrPhone},
		{Field: FieldEmail, Message: msgs.ErrEmail},
		{Field: FieldReason, Message: msgs.ErrReason},
	}, verrs)
}

func TestValidate_SingleFailure(t *testing.T) {
	raw := validRaw()
	raw.Email = "not-an-email"

	_, err := Validate(raw, today, locale.Default())
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, FieldEmail, verrs[0].Field)
}

func TestValidate_OptionalEmail(t *testing.T) {
	raw := validRaw()
	raw.Email = "   "

	sub, err := Validate(raw, today, locale.Default())
	require.NoError(t, err)
	assert.False(t, sub.HasEmail())
}

func TestStringList_UnmarshalJSON(t *testing.T) {
	var l StringList
	require.NoError(t, l.UnmarshalJSON([]byte(`"Diabetes"`)))
	assert.Equal(t, StringList{"Diabetes"}, l)

	require.NoError(t, l.UnmarshalJSON([]byte(`["Diabetes","Gota"]`)))
	assert.Equal(t, StringList{"Diabetes", "Gota"}, l)

	require.NoError(t, l.UnmarshalJSON([]byte(`null`)))
	assert.Nil(t, l)

	assert.Error(t, l.UnmarshalJSON([]byte(`42`)))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "123", FormatCPF("123"))
	assert.Equal(t, "(41) 3333-4444", FormatPhone("4133334444"))
	assert.Equal(t, "(41) 99876-5432", FormatPhone("41998765432"))
	assert.Equal(t, "999", FormatPhone("999"))
}
