package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/aa-remote/site/internal/mail"
	"github.com/aa-remote/site/internal/platform/httpx"
	"github.com/aa-remote/site/internal/platform/observability"
)

const maxFormBody = 64 << 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type formsHandler struct {
	svc     MailService
	enabled bool
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type serviceRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	RequestType string `json:"requestType"`
	DeviceType  string `json:"deviceType"`
	Message     string `json:"message"`
}

type submissionResponse struct {
	Ref string `json:"ref"`
}

// contact answers POST /api/contact.
func (h *formsHandler) contact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.checkEnabled(w, r) {
		return
	}

	var req contactRequest
	if !decodeForm(w, r, &req) {
		return
	}

	fields := map[string]string{}
	requireField(fields, "name", req.Name)
	requireEmail(fields, "email", req.Email)
	requireField(fields, "subject", req.Subject)
	requireField(fields, "message", req.Message)
	if len(fields) > 0 {
		writeFieldErrors(w, r, fields)
		return
	}

	ref, err := h.svc.SendContact(ctx, mail.ContactSubmission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		observability.FromContext(ctx).Error("contact submission failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("delivery_failed", "failed to send your message, please try again later", http.StatusBadGateway))
		return
	}

	writeJSON(ctx, w, http.StatusOK, submissionResponse{Ref: ref})
}

// request answers POST /api/request.
func (h *formsHandler) request(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.checkEnabled(w, r) {
		return
	}

	var req serviceRequest
	if !decodeForm(w, r, &req) {
		return
	}

	fields := map[string]string{}
	requireField(fields, "name", req.Name)
	requireEmail(fields, "email", req.Email)
	requireField(fields, "contact", req.Contact)
	requireField(fields, "requestType", req.RequestType)
	requireField(fields, "deviceType", req.DeviceType)
	requireField(fields, "message", req.Message)
	if len(fields) > 0 {
		writeFieldErrors(w, r, fields)
		return
	}

	ref, err := h.svc.SendRequest(ctx, mail.RequestSubmission{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Contact:     strings.TrimSpace(req.Contact),
		RequestType: strings.TrimSpace(req.RequestType),
		DeviceType:  strings.TrimSpace(req.DeviceType),
		Message:     strings.TrimSpace(req.Message),
	})
	if err != nil {
		observability.FromContext(ctx).Error("service request failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("delivery_failed", "failed to submit your request, please try again later", http.StatusBadGateway))
		return
	}

	writeJSON(ctx, w, http.StatusOK, submissionResponse{Ref: ref})
}

func (h *formsHandler) checkEnabled(w http.ResponseWriter, r *http.Request) bool {
	if h.enabled {
		return true
	}
	httpx.WriteError(r.Context(), w, httpx.NewError("mail_disabled", "form submissions are not configured", http.StatusServiceUnavailable))
	return false
}

func decodeForm(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_body", "request body must be valid JSON", http.StatusBadRequest))
		return false
	}
	return true
}

func requireField(fields map[string]string, name, value string) {
	if strings.TrimSpace(value) == "" {
		fields[name] = "required"
	}
}

func requireEmail(fields map[string]string, name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		fields[name] = "required"
		return
	}
	if !emailPattern.MatchString(value) {
		fields[name] = "invalid email address"
	}
}

func writeFieldErrors(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	httpx.WriteError(r.Context(), w,
		httpx.NewError("validation_failed", "one or more fields are invalid", http.StatusBadRequest).
			WithDetails(map[string]any{"fields": fields}))
}
