package mail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type recordingMailer struct {
	mu       sync.Mutex
	sent     []Message
	failFor  string
	failWith error
}

func (r *recordingMailer) Send(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor != "" && msg.To == r.failFor {
		return r.failWith
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

func newTestService(mailer Mailer) *Service {
	n := 0
	return NewService(Deps{
		Mailer:  mailer,
		AdminTo: "admin@example.com",
		NewRef: func() string {
			n++
			return "REF-" + strings.Repeat("0", 3) + string(rune('0'+n))
		},
	})
}

func TestSendContactDeliversToAdmin(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(mailer)

	ref, err := svc.SendContact(context.Background(), ContactSubmission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Slow laptop",
		Message: "It takes minutes to boot.",
	})
	if err != nil {
		t.Fatalf("SendContact: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected a submission reference")
	}

	sent := mailer.messages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	if sent[0].To != "admin@example.com" {
		t.Fatalf("contact mail went to %q", sent[0].To)
	}
	if !strings.Contains(sent[0].HTMLBody, "Slow laptop") || !strings.Contains(sent[0].HTMLBody, ref) {
		t.Fatalf("body missing subject or reference: %s", sent[0].HTMLBody)
	}
}

func TestSendContactStripsMarkup(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(mailer)

	_, err := svc.SendContact(context.Background(), ContactSubmission{
		Name:    "Eve",
		Email:   "eve@example.com",
		Subject: `<script>alert("x")</script>Help`,
		Message: `<img src=x onerror=alert(1)>please`,
	})
	if err != nil {
		t.Fatalf("SendContact: %v", err)
	}
	body := mailer.messages()[0].HTMLBody
	if strings.Contains(body, "<script>") || strings.Contains(body, "<img") {
		t.Fatalf("markup survived sanitization: %s", body)
	}
	if !strings.Contains(body, "Help") || !strings.Contains(body, "please") {
		t.Fatalf("text content lost during sanitization: %s", body)
	}
}

func TestSendRequestDeliversBothRecipients(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newTestService(mailer)

	ref, err := svc.SendRequest(context.Background(), RequestSubmission{
		Name:        "Bea",
		Email:       "bea@example.com",
		Contact:     "555-0100",
		RequestType: "virus removal",
		DeviceType:  "desktop",
		Message:     "Browser popups everywhere.",
	})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	sent := mailer.messages()
	if len(sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sent))
	}
	recipients := map[string]bool{}
	for _, msg := range sent {
		recipients[msg.To] = true
		if !strings.Contains(msg.HTMLBody, ref) {
			t.Fatalf("message to %q missing reference", msg.To)
		}
	}
	if !recipients["admin@example.com"] || !recipients["bea@example.com"] {
		t.Fatalf("wrong recipients: %v", recipients)
	}
}

func TestSendRequestFailsWhenEitherSendFails(t *testing.T) {
	sendErr := errors.New("relay refused")
	mailer := &recordingMailer{failFor: "bea@example.com", failWith: sendErr}
	svc := newTestService(mailer)

	_, err := svc.SendRequest(context.Background(), RequestSubmission{
		Name:        "Bea",
		Email:       "bea@example.com",
		Contact:     "555-0100",
		RequestType: "setup",
		DeviceType:  "laptop",
		Message:     "New machine.",
	})
	if !errors.Is(err, sendErr) {
		t.Fatalf("expected customer send failure to surface, got %v", err)
	}
}
