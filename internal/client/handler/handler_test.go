package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bimadesk/internal/audit"
	"bimadesk/internal/client"
	"bimadesk/internal/client/handler/mocks"
	"bimadesk/internal/client/service"
	"bimadesk/internal/document"
	id "bimadesk/pkg/domain"
	dErrors "bimadesk/pkg/domain-errors"
	"bimadesk/pkg/testutil"
)

type ClientHandlerSuite struct {
	suite.Suite
}

func TestClientHandlerSuite(t *testing.T) {
	suite.Run(t, new(ClientHandlerSuite))
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func strPtr(s string) *string { return &s }

func (s *ClientHandlerSuite) TestCreateReturns201() {
	r, mockService := newTestRouter(s.T())
	now := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
	clientID := id.NewClientID()

	mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&service.View{
		ID:         clientID.String(),
		ClientType: client.VariantPersonal,
		Fields:     map[string]string{"firstName": "Ravi", "mobileNumber": "9876543210"},
		Documents:  []document.Document{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/clients", client.Input{
		FirstName: strPtr("Ravi"),
		Personal: &client.PersonalInput{
			MobileNumber: strPtr("9876543210"),
			BirthDate:    strPtr("1988-11-02"),
		},
	})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	view := testutil.UnmarshalResponse[service.View](s.T(), rr)
	s.Equal(clientID.String(), view.ID)
	s.Equal(client.VariantPersonal, view.ClientType)
}

func (s *ClientHandlerSuite) TestCreateValidationReturns422WithViolations() {
	r, mockService := newTestRouter(s.T())

	mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil,
		dErrors.NewValidation([]dErrors.FieldViolation{
			{Field: "whatsappNumber", Reason: dErrors.ReasonMissingField},
			{Field: "panNumber", Reason: dErrors.ReasonInvalidPAN},
		}))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/clients", client.Input{
		Family: &client.FamilyInput{PhoneNumber: strPtr("9123456780")},
	})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "VALIDATION")
	body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	violations, ok := (*body)["violations"].([]any)
	s.Require().True(ok)
	s.Len(violations, 2)
}

func (s *ClientHandlerSuite) TestCreateMalformedBodyReturns422() {
	r, _ := newTestRouter(s.T())

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/clients", `{"firstName": `)
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "INVALID_INPUT")
}

func (s *ClientHandlerSuite) TestGetInvalidIDReturns422() {
	r, _ := newTestRouter(s.T())

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet, "/clients/not-a-uuid"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "INVALID_INPUT")
}

func (s *ClientHandlerSuite) TestGetUnknownReturns404() {
	r, mockService := newTestRouter(s.T())
	clientID := id.NewClientID()

	mockService.EXPECT().Get(gomock.Any(), clientID).Return(nil,
		dErrors.New(dErrors.CodeNotFound, "client not found"))

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet, "/clients/"+clientID.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "NOT_FOUND")
}

func (s *ClientHandlerSuite) TestUpdateReturns200() {
	r, mockService := newTestRouter(s.T())
	clientID := id.NewClientID()

	mockService.EXPECT().Update(gomock.Any(), clientID, gomock.Any()).Return(&service.View{
		ID:         clientID.String(),
		ClientType: client.VariantPersonal,
		Fields:     map[string]string{"education": "M.Com"},
		Documents:  []document.Document{},
	}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/clients/"+clientID.String(), client.Input{
		Personal: &client.PersonalInput{Education: strPtr("M.Com")},
	})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	view := testutil.UnmarshalResponse[service.View](s.T(), rr)
	s.Equal("M.Com", view.Fields["education"])
}

func (s *ClientHandlerSuite) TestDeleteReturns204() {
	r, mockService := newTestRouter(s.T())
	clientID := id.NewClientID()

	mockService.EXPECT().Delete(gomock.Any(), clientID).Return(nil)

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodDelete, "/clients/"+clientID.String()))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}

func (s *ClientHandlerSuite) TestAttachDocumentRequiresType() {
	r, _ := newTestRouter(s.T())
	clientID := id.NewClientID()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/clients/"+clientID.String()+"/documents",
		AttachDocumentRequest{StorageRef: "s3://docs/pan.pdf"})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "INVALID_INPUT")
}

func (s *ClientHandlerSuite) TestAuditLogPassesQueryParams() {
	r, mockService := newTestRouter(s.T())
	clientID := id.NewClientID()

	mockService.EXPECT().
		AuditLog(gomock.Any(), clientID, 2, 10, audit.OrderChronological).
		Return([]audit.Entry{}, nil)

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet,
		"/clients/"+clientID.String()+"/audit?page=2&limit=10&order=asc"))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[AuditLogResponse](s.T(), rr)
	s.Equal(2, resp.Page)
	s.Equal(10, resp.Limit)
	s.Equal("asc", resp.Order)
}

func (s *ClientHandlerSuite) TestAuditLogClampsBadParams() {
	r, mockService := newTestRouter(s.T())
	clientID := id.NewClientID()

	mockService.EXPECT().
		AuditLog(gomock.Any(), clientID, 1, 50, audit.OrderNewestFirst).
		Return([]audit.Entry{}, nil)

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet,
		"/clients/"+clientID.String()+"/audit?page=-3&limit=99999"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *ClientHandlerSuite) TestAuditStats() {
	r, mockService := newTestRouter(s.T())
	clientID := id.NewClientID()

	mockService.EXPECT().AuditStats(gomock.Any(), clientID).Return(audit.Stats{
		TotalChanges: 7,
		ChangesByAction: map[audit.Action]int{
			audit.ActionCreate: 5,
			audit.ActionUpdate: 2,
		},
	}, nil)

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet,
		"/clients/"+clientID.String()+"/audit/stats"))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	stats := testutil.UnmarshalResponse[audit.Stats](s.T(), rr)
	s.Equal(7, stats.TotalChanges)
}
