package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/franzego/maybunga-notifications/internal/config"
	"github.com/franzego/maybunga-notifications/internal/models"
	"github.com/franzego/maybunga-notifications/internal/services"
	"github.com/franzego/maybunga-notifications/internal/store"
)

// Mock notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendNotification(ctx context.Context, patient models.Patient, t models.NotificationType, vars map[string]string, opts models.SendOptions) models.DeliveryResult {
	args := m.Called(ctx, patient, t, vars, opts)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendBulkNotifications(ctx context.Context, patients []models.Patient, t models.NotificationType, vars map[string]string, opts models.SendOptions) models.BulkResult {
	args := m.Called(ctx, patients, t, vars, opts)
	return args.Get(0).(models.BulkResult)
}

func (m *MockNotifier) SendSMS(ctx context.Context, recipient, message string, opts models.SendOptions) models.DeliveryResult {
	args := m.Called(ctx, recipient, message, opts)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendEmail(ctx context.Context, recipient, subject, content string, opts models.SendOptions) models.DeliveryResult {
	args := m.Called(ctx, recipient, subject, content, opts)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) TestNotification(ctx context.Context, contact string, method models.Method) models.DeliveryResult {
	args := m.Called(ctx, contact, method)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) Status() models.AggregateStatus {
	args := m.Called()
	return args.Get(0).(models.AggregateStatus)
}

func (m *MockNotifier) SendAppointmentReminder(ctx context.Context, patient models.Patient, appt models.Appointment) models.DeliveryResult {
	args := m.Called(ctx, patient, appt)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendAppointmentConfirmation(ctx context.Context, patient models.Patient, appt models.Appointment) models.DeliveryResult {
	args := m.Called(ctx, patient, appt)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendVaccinationReminder(ctx context.Context, patient models.Patient, v models.Vaccination) models.DeliveryResult {
	args := m.Called(ctx, patient, v)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendCheckupReminder(ctx context.Context, patient models.Patient, c models.Checkup) models.DeliveryResult {
	args := m.Called(ctx, patient, c)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendPrescriptionReady(ctx context.Context, patient models.Patient, p models.Prescription) models.DeliveryResult {
	args := m.Called(ctx, patient, p)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendLabResultsReady(ctx context.Context, patient models.Patient, r models.LabResult) models.DeliveryResult {
	args := m.Called(ctx, patient, r)
	return args.Get(0).(models.DeliveryResult)
}

func (m *MockNotifier) SendEmergencyAlert(ctx context.Context, patient models.Patient, a models.Alert) models.DeliveryResult {
	args := m.Called(ctx, patient, a)
	return args.Get(0).(models.DeliveryResult)
}

// Mock event publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDeliveryEvent(ctx context.Context, event models.DeliveryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func setupMockRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, s
}

func setupRouter(notifier Notifier, statusStore StatusStore, publisher *MockPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	var handler *NotificationHandler
	if publisher == nil {
		handler = NewNotificationHandler(notifier, statusStore, nil, nil)
	} else {
		handler = NewNotificationHandler(notifier, statusStore, publisher, nil)
	}
	router := gin.New()
	handler.Register(router.Group("/api/v1/notifications"))
	return router
}

func doJSON(router *gin.Engine, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var body []byte
	switch p := payload.(type) {
	case string:
		body = []byte(p)
	case nil:
	default:
		body, _ = json.Marshal(p)
	}
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	var response models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestSendNotification_Success(t *testing.T) {
	notifier := new(MockNotifier)
	publisher := new(MockPublisher)
	rdb, _ := setupMockRedis(t)
	statusStore := store.NewDeliveryStore(rdb, time.Hour)

	notifier.On("SendNotification", mock.Anything,
		models.Patient{ID: "42", Name: "Juan", ContactNumber: "09171234567"},
		models.AppointmentReminder,
		map[string]string{"date": "Monday, January 5, 2026", "time": "9:00 AM"},
		models.SendOptions{Urgency: "normal"}).
		Return(models.DeliveryResult{Success: true, MessageID: "mock_1", Provider: "mock", PatientID: "42", Type: models.AppointmentReminder})
	publisher.On("PublishDeliveryEvent", mock.Anything, mock.MatchedBy(func(ev models.DeliveryEvent) bool {
		return ev.MessageID == "mock_1" && ev.Success && ev.PatientID == "42"
	})).Return(nil)

	router := setupRouter(notifier, statusStore, publisher)
	w := doJSON(router, http.MethodPost, "/api/v1/notifications/send", `{
		"patient": {"id": 42, "name": "Juan", "contactNumber": "09171234567"},
		"type": "appointment_reminder",
		"variables": {"date": "Monday, January 5, 2026", "time": "9:00 AM"},
		"options": {"urgency": "normal"}
	}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.True(t, response.Success)
	assert.Equal(t, "Notification processed", response.Message)

	cached, err := statusStore.Get(context.Background(), "mock_1")
	require.NoError(t, err)
	assert.Equal(t, "sent", cached.Status)

	notifier.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSendNotification_FailureIsStill200(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.DeliveryResult{Success: false, Error: "No valid contact method found for patient", PatientID: "7"})

	router := setupRouter(notifier, nil, nil)
	w := doJSON(router, http.MethodPost, "/api/v1/notifications/send",
		map[string]interface{}{"patient": map[string]string{"id": "7"}, "type": "checkup_reminder"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.False(t, response.Success)
	assert.Equal(t, "No valid contact method found for patient", response.Error)
}

func TestSendNotification_MissingFields(t *testing.T) {
	router := setupRouter(new(MockNotifier), nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing patient", `{"type": "appointment_reminder"}`},
		{"missing type", `{"patient": {"id": 1}}`},
		{"malformed json", `{"patient":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/v1/notifications/send", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, decode(t, w).Success)
		})
	}
}

func TestSendNotification_IdempotencyKey(t *testing.T) {
	notifier := new(MockNotifier)
	rdb, _ := setupMockRedis(t)
	notifier.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.DeliveryResult{Success: true}).Once()

	router := setupRouter(notifier, store.NewDeliveryStore(rdb, time.Hour), nil)
	body := `{"patient": {"id": 1, "contactNumber": "09171234567"}, "type": "general_announcement"}`
	headers := map[string]string{IdempotencyHeader: "req-123"}

	first := doJSON(router, http.MethodPost, "/api/v1/notifications/send", body, headers)
	second := doJSON(router, http.MethodPost, "/api/v1/notifications/send", body, headers)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "Notification Already Processed", decode(t, second).Message)
	notifier.AssertNumberOfCalls(t, "SendNotification", 1)
}

func TestSendNotification_FailedSendCanBeRetriedWithSameKey(t *testing.T) {
	notifier := new(MockNotifier)
	rdb, _ := setupMockRedis(t)
	notifier.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.DeliveryResult{Success: false, Error: "simulated SMS delivery failure"}).Once()
	notifier.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.DeliveryResult{Success: true, MessageID: "mock_ok"}).Once()

	router := setupRouter(notifier, store.NewDeliveryStore(rdb, time.Hour), nil)
	body := `{"patient": {"id": 1, "contactNumber": "09171234567"}, "type": "general_announcement"}`
	headers := map[string]string{IdempotencyHeader: "req-retry"}

	first := doJSON(router, http.MethodPost, "/api/v1/notifications/send", body, headers)
	second := doJSON(router, http.MethodPost, "/api/v1/notifications/send", body, headers)
	third := doJSON(router, http.MethodPost, "/api/v1/notifications/send", body, headers)

	assert.False(t, decode(t, first).Success)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.True(t, decode(t, second).Success)
	assert.Equal(t, http.StatusConflict, third.Code)
	notifier.AssertNumberOfCalls(t, "SendNotification", 2)
}

func TestSendNotification_StoreDownDoesNotFailRequest(t *testing.T) {
	notifier := new(MockNotifier)
	rdb, mr := setupMockRedis(t)
	mr.Close()
	notifier.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.DeliveryResult{Success: true, MessageID: "mock_2"})

	router := setupRouter(notifier, store.NewDeliveryStore(rdb, time.Hour), nil)
	w := doJSON(router, http.MethodPost, "/api/v1/notifications/send",
		`{"patient": {"id": 1}, "type": "general_announcement"}`, map[string]string{IdempotencyHeader: "k"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestSendNotification_PublishErrorIsIgnored(t *testing.T) {
	notifier := new(MockNotifier)
	publisher := new(MockPublisher)
	notifier.On("SendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.DeliveryResult{Success: true, MessageID: "mock_3"})
	publisher.On("PublishDeliveryEvent", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	router := setupRouter(notifier, nil, publisher)
	w := doJSON(router, http.MethodPost, "/api/v1/notifications/send",
		`{"patient": {"id": 1}, "type": "general_announcement"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestSendBulk(t *testing.T) {
	notifier := new(MockNotifier)
	publisher := new(MockPublisher)
	notifier.On("SendBulkNotifications", mock.Anything,
		[]models.Patient{{ID: "1", ContactNumber: "09171234567"}, {ID: "2", Email: "a@b.com"}},
		models.GeneralAnnouncement, map[string]string{"message": "Clinic closed"}, models.SendOptions{}).
		Return(models.BulkResult{
			Total: 2, Sent: 1, Failed: 1, SMSCount: 1, EmailCount: 1,
			Results: []models.DeliveryResult{{Success: true, PatientID: "1"}, {Success: false, PatientID: "2"}},
		})
	publisher.On("PublishDeliveryEvent", mock.Anything, mock.Anything).Return(nil).Twice()

	router := setupRouter(notifier, nil, publisher)
	w := doJSON(router, http.MethodPost, "/api/v1/notifications/send-bulk", `{
		"patients": [{"id": 1, "contactNumber": "09171234567"}, {"id": "2", "email": "a@b.com"}],
		"type": "general_announcement",
		"variables": {"message": "Clinic closed"}
	}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Success bool              `json:"success"`
		Data    models.BulkResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, 2, response.Data.Total)
	assert.Equal(t, 1, response.Data.Sent)
	assert.Len(t, response.Data.Results, 2)
	publisher.AssertExpectations(t)
}

func TestSendBulk_ClientDisconnectDoesNotAbortSends(t *testing.T) {
	sim := services.NewSimulator(rand.New(rand.NewSource(1)), 0, 0, 0)
	sms := services.NewSMSService(nil, sim, nil, 5, 0, nil, nil)
	email := services.NewEmailService(nil, models.ProviderNone, services.EmailSender{}, nil, 10, 0, nil, nil)
	notifier := services.NewNotificationService(sms, email, nil,
		config.NotificationConfig{DefaultMethod: "sms", FallbackEnabled: true}, nil, nil)

	publisher := new(MockPublisher)
	publisher.On("PublishDeliveryEvent", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil).Times(7)
	rdb, _ := setupMockRedis(t)
	statusStore := store.NewDeliveryStore(rdb, time.Hour)
	router := setupRouter(notifier, statusStore, publisher)

	patients := make([]string, 7)
	for i := range patients {
		patients[i] = fmt.Sprintf(`{"id": %d, "contactNumber": "0917123456%d"}`, i+1, i)
	}
	body := `{"patients": [` + strings.Join(patients, ",") + `], "type": "general_announcement", "variables": {"message": "Clinic closed"}}`

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "/api/v1/notifications/send-bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data models.BulkResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 7, response.Data.Sent)
	assert.Equal(t, 0, response.Data.Failed)
	for _, r := range response.Data.Results {
		assert.True(t, r.Success, r.Error)
		_, err := statusStore.Get(context.Background(), r.MessageID)
		assert.NoError(t, err)
	}
	publisher.AssertExpectations(t)
}

func TestSendBulk_Validation(t *testing.T) {
	router := setupRouter(new(MockNotifier), nil, nil)

	for _, body := range []string{
		`{"patients": [], "type": "general_announcement"}`,
		`{"type": "general_announcement"}`,
		`{"patients": [{"id": 1}]}`,
		`{"patients": {"id": 1}, "type": "general_announcement"}`,
	} {
		w := doJSON(router, http.MethodPost, "/api/v1/notifications/send-bulk", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestSendSMS(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendSMS", mock.Anything, "09171234567", "hello", models.SendOptions{}).
		Return(models.DeliveryResult{Success: true, MessageID: "mock_4", Method: models.MethodSMS})

	router := setupRouter(notifier, nil, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/notifications/sms", `{"recipient": "09171234567"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Recipient and message are required", decode(t, w).Error)

	w = doJSON(router, http.MethodPost, "/api/v1/notifications/sms", `{"recipient": "09171234567", "message": "hello"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
	notifier.AssertExpectations(t)
}

func TestSendEmail(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendEmail", mock.Anything, "a@b.com", "Hi", "<p>Body</p>", models.SendOptions{}).
		Return(models.DeliveryResult{Success: false, Skipped: false, Error: "Email service not configured"})

	router := setupRouter(notifier, nil, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/notifications/email", `{"recipient": "a@b.com", "content": "x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Recipient, subject, and content are required", decode(t, w).Error)

	w = doJSON(router, http.MethodPost, "/api/v1/notifications/email",
		`{"recipient": "a@b.com", "subject": "Hi", "content": "<p>Body</p>"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.False(t, response.Success)
	assert.Equal(t, "Email service not configured", response.Error)
}

func TestTestNotification_DefaultsToAuto(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("TestNotification", mock.Anything, "09171234567", models.MethodAuto).
		Return(models.DeliveryResult{Success: true})

	router := setupRouter(notifier, nil, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/notifications/test", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/notifications/test", `{"contact": " 09171234567 "}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	notifier.AssertExpectations(t)
}

func TestGetStatus(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("Status").Return(models.AggregateStatus{
		SMS:             models.ChannelStatus{Provider: "mock", Ready: true},
		Email:           models.ChannelStatus{Provider: "none"},
		PreferredMethod: models.MethodAuto,
		FallbackEnabled: true,
	})

	router := setupRouter(notifier, nil, nil)
	w := doJSON(router, http.MethodGet, "/api/v1/notifications/status", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"preferredMethod":"auto"`)
	assert.Contains(t, w.Body.String(), `"fallbackEnabled":true`)
}

func TestGetDelivery(t *testing.T) {
	rdb, _ := setupMockRedis(t)
	statusStore := store.NewDeliveryStore(rdb, time.Hour)
	require.NoError(t, statusStore.SaveResult(context.Background(),
		models.DeliveryResult{Success: true, MessageID: "SM1", Status: "queued"}))

	router := setupRouter(new(MockNotifier), statusStore, nil)

	w := doJSON(router, http.MethodGet, "/api/v1/notifications/deliveries/SM1", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"queued"`)

	w = doJSON(router, http.MethodGet, "/api/v1/notifications/deliveries/unknown", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDelivery_NoStore(t *testing.T) {
	router := setupRouter(new(MockNotifier), nil, nil)

	w := doJSON(router, http.MethodGet, "/api/v1/notifications/deliveries/SM1", nil, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAppointmentReminder(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendAppointmentReminder", mock.Anything,
		models.Patient{ID: "5", Name: "Ana", Email: "ana@example.com"},
		mock.MatchedBy(func(a models.Appointment) bool {
			return a.Date.Long() == "Monday, January 5, 2026" && a.Time == "9:00 AM" && a.Doctor == "Dr. Santos"
		})).
		Return(models.DeliveryResult{Success: true, Type: models.AppointmentReminder})

	router := setupRouter(notifier, nil, nil)
	w := doJSON(router, http.MethodPost, "/api/v1/notifications/appointment-reminder", `{
		"patient": {"id": 5, "name": "Ana", "email": "ana@example.com"},
		"details": {"date": "2026-01-05", "time": "9:00 AM", "doctor": "Dr. Santos"}
	}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Appointment reminder processed", decode(t, w).Message)
	notifier.AssertExpectations(t)
}

func TestReminderRoutes(t *testing.T) {
	notifier := new(MockNotifier)
	ok := models.DeliveryResult{Success: true}
	notifier.On("SendAppointmentConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(ok)
	notifier.On("SendVaccinationReminder", mock.Anything, mock.Anything,
		mock.MatchedBy(func(v models.Vaccination) bool { return v.VaccineName == "Measles" })).Return(ok)
	notifier.On("SendCheckupReminder", mock.Anything, mock.Anything, mock.Anything).Return(ok)
	notifier.On("SendPrescriptionReady", mock.Anything, mock.Anything,
		mock.MatchedBy(func(p models.Prescription) bool { return p.Medication == "Amoxicillin" })).Return(ok)
	notifier.On("SendLabResultsReady", mock.Anything, mock.Anything,
		models.LabResult{TestName: "CBC"}).Return(ok)
	notifier.On("SendEmergencyAlert", mock.Anything, mock.Anything,
		models.Alert{Message: "Flood"}).Return(ok)

	router := setupRouter(notifier, nil, nil)
	patient := `"patient": {"id": 1, "contactNumber": "09171234567"}`
	routes := map[string]string{
		"appointment-confirmation": `{` + patient + `, "details": {"date": "2026-01-05", "time": "10:00 AM"}}`,
		"vaccination-reminder":     `{` + patient + `, "details": {"vaccineName": "Measles", "dueDate": "2026-03-06"}}`,
		"checkup-reminder":         `{` + patient + `, "details": {"lastCheckup": null}}`,
		"prescription-ready":       `{` + patient + `, "details": {"medication": "Amoxicillin"}}`,
		"lab-results-ready":        `{` + patient + `, "details": {"testName": "CBC"}}`,
		"emergency-alert":          `{` + patient + `, "details": {"message": "Flood"}}`,
	}

	for route, body := range routes {
		w := doJSON(router, http.MethodPost, "/api/v1/notifications/"+route, body, nil)
		assert.Equal(t, http.StatusOK, w.Code, route)
	}
	notifier.AssertExpectations(t)
}

func TestReminder_MissingPatient(t *testing.T) {
	router := setupRouter(new(MockNotifier), nil, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/notifications/emergency-alert", `{"details": {"message": "Flood"}}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Patient is required", decode(t, w).Error)
}

func TestReminder_BadDate(t *testing.T) {
	router := setupRouter(new(MockNotifier), nil, nil)

	w := doJSON(router, http.MethodPost, "/api/v1/notifications/appointment-reminder",
		`{"patient": {"id": 1}, "details": {"date": "next tuesday"}}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
