package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"intake/internal/intake"
	"intake/internal/intake/handler/mocks"
	"intake/internal/intake/service"
	"intake/internal/locale"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	pipeline *mocks.MockPipeline
	router   chi.Router
	logs     *bytes.Buffer
	pt       locale.Catalog
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.pipeline = mocks.NewMockPipeline(ctrl)
	s.logs = &bytes.Buffer{}
	s.pt = locale.Default()

	h := New(s.pipeline, s.pt, slog.New(slog.NewJSONHandler(s.logs, nil)), 1024)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

const validBody = `{
	"fullName": "Ana Maria Souza",
	"birthDate": "1980-05-17",
	"cpf": "529.982.247-25",
	"address": "Rua das Flores, 100",
	"city": "Curitiba/PR",
	"phone": "(41) 99876-5432",
	"email": "ana@example.com",
	"reason": "Creatinina elevada nos últimos exames.",
	"conditions": ["Hipertensão", "Diabetes"],
	"biopsy": "Não",
	"sourceChannel": "Instagram"
}`

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), method, path, body, "req-42"))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return testutil.UnmarshalResponse[map[string]any](t, w)
}

func (s *HandlerSuite) TestSuccess() {
	s.pipeline.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, raw intake.RawSubmission) (*service.Receipt, error) {
			s.Equal("Ana Maria Souza", raw.FullName)
			s.Equal(intake.StringList{"Hipertensão", "Diabetes"}, raw.Conditions)
			return &service.Receipt{Reference: "ref-1", Outcome: intake.Sent()}, nil
		})

	w := s.do(http.MethodPost, PathIntake, validBody)

	s.Equal(http.StatusOK, w.Code)
	body := decode(s.T(), w)
	s.Equal("E-mail enviado com sucesso!", body["message"])
	s.Equal("ref-1", body["reference"])
}

func (s *HandlerSuite) TestLegacyPath() {
	s.pipeline.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(&service.Receipt{Reference: "ref-2", Outcome: intake.Sent()}, nil)

	w := s.do(http.MethodPost, PathLegacy, validBody)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestNonPostIsRejectedBeforeParsing() {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		s.Run(method, func() {
			// no pipeline expectation: any call fails the test
			w := s.do(method, PathIntake, "not json at all")
			s.Equal(http.StatusMethodNotAllowed, w.Code)
			s.Equal(http.MethodPost, w.Header().Get("Allow"))
			s.Equal("method_not_allowed", decode(s.T(), w)["error"])
		})
	}
}

func (s *HandlerSuite) TestMalformedJSONIsGenericFailure() {
	w := s.do(http.MethodPost, PathIntake, `{"fullName":`)

	s.Equal(http.StatusInternalServerError, w.Code)
	body := decode(s.T(), w)
	s.Equal("internal_error", body["error"])
	s.Equal("Erro ao enviar PDF.", body["error_description"])
}

func (s *HandlerSuite) TestOversizedBodyIsGenericFailure() {
	big := `{"reason":"` + strings.Repeat("a", 4096) + `"}`
	w := s.do(http.MethodPost, PathIntake, big)
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *HandlerSuite) TestValidationErrorsAreListed() {
	fields := intake.ValidationErrors{
		{Field: intake.FieldCPF, Message: s.pt.ErrCPF},
		{Field: intake.FieldReason, Message: s.pt.ErrReason},
	}
	s.pipeline.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.Wrap(fields, dErrors.CodeValidation, "invalid submission"))

	w := s.do(http.MethodPost, PathIntake, validBody)

	s.Equal(http.StatusBadRequest, w.Code)
	body := testutil.UnmarshalResponse[ValidationResponse](s.T(), w)
	s.Equal("validation_error", body.Error)
	s.Equal(fields, body.Errors)
}

func (s *HandlerSuite) TestDispatchFailureLeaksNothing() {
	cause := errors.New("535 5.7.8 Username and Password not accepted for sender@example.com pass=hunter2")
	s.pipeline.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.Wrap(cause, dErrors.CodeDispatch, "failed to send intake document"))

	w := s.do(http.MethodPost, PathIntake, validBody)

	s.Equal(http.StatusInternalServerError, w.Code)
	raw := w.Body.String()
	s.NotContains(raw, "hunter2")
	s.NotContains(raw, "sender@example.com")
	s.NotContains(raw, "dispatch")
	s.Equal("Erro ao enviar PDF.", decode(s.T(), w)["error_description"])

	s.Contains(s.logs.String(), `"request_id":"req-42"`)
	s.Contains(s.logs.String(), `"code":"dispatch_error"`)
}

func TestNewDefaultsBodyLimit(t *testing.T) {
	h := New(nil, locale.Default(), slog.Default(), 0)
	assert.Equal(t, int64(DefaultMaxBodyBytes), h.maxBodyBytes)
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	h := New(nil, locale.Default(), nil, 0)
	assert.NotNil(t, h.logger)

	router := chi.NewRouter()
	h.Register(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, PathIntake, strings.NewReader(`{"fullName":`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
