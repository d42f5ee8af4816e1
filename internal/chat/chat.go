// Package chat implements the scripted support-chat widget: a keyword rule
// responder over short-lived server-side sessions.
package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/aa-remote/site/internal/platform/cache"
)

// DefaultSessionTTL expires idle conversations. Every exchange renews it.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound reports a session ID with no live conversation behind
// it, either unknown or expired.
var ErrSessionNotFound = errors.New("chat: session not found")

// Role distinguishes who wrote a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one chat bubble.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session is one conversation. Sessions live server-side so a page reload
// restores the transcript until the TTL lapses.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// Rule maps trigger keywords to a canned reply. The first rule with a
// keyword present in the user's text wins.
type Rule struct {
	Keywords []string
	Reply    string
}

// DefaultRules is the stock script for a remote computer-support desk.
var DefaultRules = []Rule{
	{
		Keywords: []string{"hello", "hi", "hey"},
		Reply:    "Hello! I can help with questions about our remote support services. What is going on with your computer?",
	},
	{
		Keywords: []string{"price", "cost", "pricing", "fee"},
		Reply:    "Pricing depends on the job, but most remote sessions are a flat fee quoted up front. Send us a request and we will confirm before any work starts.",
	},
	{
		Keywords: []string{"virus", "malware", "popup", "infected"},
		Reply:    "That sounds like a malware cleanup. We handle those remotely every day. Submit a service request and pick \"virus removal\" so a technician can reach you.",
	},
	{
		Keywords: []string{"slow", "freez", "lag"},
		Reply:    "A slow machine usually comes down to startup bloat, low disk space, or failing hardware. We can diagnose it in a remote session.",
	},
	{
		Keywords: []string{"hours", "open", "available", "when"},
		Reply:    "Technicians are available weekdays 9am to 7pm and Saturday mornings. Requests submitted outside those hours are answered the next working day.",
	},
	{
		Keywords: []string{"remote", "how", "work"},
		Reply:    "You approve a secure screen-sharing session, watch everything we do, and can end it at any time. Nothing is installed permanently.",
	},
}

const fallbackReply = "I am a scripted helper, so that one is beyond me. Use the contact form and a real technician will get back to you."

const greeting = "Hi! Ask me about pricing, availability, or common computer problems."

// Deps bundles the collaborators a Service needs.
type Deps struct {
	Store      *cache.Store[Session]
	Logger     *zap.Logger
	Rules      []Rule
	SessionTTL time.Duration
	Clock      func() time.Time
	NewID      func() string
}

// Service owns the session lifecycle and rule matching.
type Service struct {
	store  *cache.Store[Session]
	logger *zap.Logger
	rules  []Rule
	ttl    time.Duration
	clock  func() time.Time
	newID  func() string
}

// NewService constructs a chat service. Nil optional deps fall back to
// working defaults.
func NewService(deps Deps) *Service {
	if deps.Store == nil {
		deps.Store = cache.New[Session]()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if len(deps.Rules) == 0 {
		deps.Rules = DefaultRules
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = DefaultSessionTTL
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return ulid.Make().String() }
	}
	return &Service{
		store:  deps.Store,
		logger: deps.Logger,
		rules:  deps.Rules,
		ttl:    deps.SessionTTL,
		clock:  deps.Clock,
		newID:  deps.NewID,
	}
}

// Start opens a new session seeded with the bot greeting.
func (s *Service) Start() Session {
	now := s.clock().UTC()
	session := Session{
		ID:        s.newID(),
		CreatedAt: now,
		Messages: []Message{
			{Role: RoleBot, Text: greeting, At: now},
		},
	}
	s.store.Set(session.ID, session, s.ttl)
	s.logger.Debug("chat session started", zap.String("session_id", session.ID))
	return session
}

// Respond appends the user's message and the matched reply to the session
// transcript. An empty session ID starts a new session first. Each exchange
// renews the session TTL.
func (s *Service) Respond(sessionID, text string) (Session, error) {
	var session Session
	if sessionID == "" {
		session = s.Start()
	} else {
		var ok bool
		session, ok = s.lookup(sessionID)
		if !ok {
			return Session{}, ErrSessionNotFound
		}
	}

	now := s.clock().UTC()
	session.Messages = append(session.Messages,
		Message{Role: RoleUser, Text: strings.TrimSpace(text), At: now},
		Message{Role: RoleBot, Text: s.reply(text), At: now},
	)
	s.store.Set(session.ID, session, s.ttl)
	return session, nil
}

// Get returns the live session for id.
func (s *Service) Get(sessionID string) (Session, error) {
	session, ok := s.lookup(sessionID)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Clear ends a session and forgets its transcript.
func (s *Service) Clear(sessionID string) {
	s.store.Remove(sessionID)
	s.logger.Debug("chat session cleared", zap.String("session_id", sessionID))
}

// lookup enforces the TTL on read since the store serves stale entries.
func (s *Service) lookup(sessionID string) (Session, bool) {
	if s.store.IsExpired(sessionID) {
		s.store.Remove(sessionID)
		return Session{}, false
	}
	session, ok := s.store.Get(sessionID)
	return session, ok
}

// reply returns the first rule whose keyword appears in the text.
func (s *Service) reply(text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range s.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				return rule.Reply
			}
		}
	}
	return fallbackReply
}
