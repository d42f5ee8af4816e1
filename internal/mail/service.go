package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ContactSubmission is the payload of the contact form after validation.
type ContactSubmission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// RequestSubmission is the payload of the service-request form after
// validation.
type RequestSubmission struct {
	Name        string
	Email       string
	Contact     string
	RequestType string
	DeviceType  string
	Message     string
}

// Deps bundles the collaborators a Service needs.
type Deps struct {
	Mailer  Mailer
	Logger  *zap.Logger
	AdminTo string
	NewRef  func() string
}

// Service turns form submissions into delivered email. User-provided text is
// stripped of markup before it enters an HTML body.
type Service struct {
	mailer   Mailer
	logger   *zap.Logger
	adminTo  string
	newRef   func() string
	sanitize *bluemonday.Policy
}

// NewService constructs a mail service.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NewRef == nil {
		deps.NewRef = func() string { return ulid.Make().String() }
	}
	return &Service{
		mailer:   deps.Mailer,
		logger:   deps.Logger,
		adminTo:  deps.AdminTo,
		newRef:   deps.NewRef,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// SendContact notifies the admin mailbox of a contact-form message and
// returns the submission reference.
func (s *Service) SendContact(ctx context.Context, sub ContactSubmission) (string, error) {
	ref := s.newRef()
	body, err := render(contactAdminTmpl, map[string]string{
		"Ref":     ref,
		"Name":    s.clean(sub.Name),
		"Email":   s.clean(sub.Email),
		"Subject": s.clean(sub.Subject),
		"Message": s.clean(sub.Message),
	})
	if err != nil {
		return "", err
	}

	msg := Message{
		To:       s.adminTo,
		Subject:  fmt.Sprintf("Contact form: %s", s.clean(sub.Subject)),
		HTMLBody: body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("contact mail delivery failed", zap.String("ref", ref), zap.Error(err))
		return "", err
	}

	s.logger.Info("contact submission delivered", zap.String("ref", ref))
	return ref, nil
}

// SendRequest delivers a service request to the admin mailbox and a
// confirmation to the customer. The two sends run concurrently and either
// failure fails the submission, so the caller never reports success for a
// half-delivered request.
func (s *Service) SendRequest(ctx context.Context, sub RequestSubmission) (string, error) {
	ref := s.newRef()
	data := map[string]string{
		"Ref":         ref,
		"Name":        s.clean(sub.Name),
		"Email":       s.clean(sub.Email),
		"Contact":     s.clean(sub.Contact),
		"RequestType": s.clean(sub.RequestType),
		"DeviceType":  s.clean(sub.DeviceType),
		"Message":     s.clean(sub.Message),
	}

	adminBody, err := render(requestAdminTmpl, data)
	if err != nil {
		return "", err
	}
	customerBody, err := render(requestCustomerTmpl, data)
	if err != nil {
		return "", err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.mailer.Send(gctx, Message{
			To:       s.adminTo,
			Subject:  fmt.Sprintf("Support request [%s]: %s", ref, data["RequestType"]),
			HTMLBody: adminBody,
		})
	})
	g.Go(func() error {
		return s.mailer.Send(gctx, Message{
			To:       sub.Email,
			Subject:  fmt.Sprintf("Your support request %s", ref),
			HTMLBody: customerBody,
		})
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("request mail delivery failed", zap.String("ref", ref), zap.Error(err))
		return "", err
	}

	s.logger.Info("support request delivered",
		zap.String("ref", ref),
		zap.String("request_type", data["RequestType"]))
	return ref, nil
}

func (s *Service) clean(raw string) string {
	return strings.TrimSpace(s.sanitize.Sanitize(raw))
}
