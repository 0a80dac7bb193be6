package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type fakeGate struct {
	authenticated bool
	inLogin       bool
	begun         bool
}

func (g *fakeGate) Authenticated(int64) bool { return g.authenticated }
func (g *fakeGate) InLoginFlow(int64) bool { return g.inLogin }
func (g *fakeGate) BeginLogin(int64) { g.begun = true }

type fakeContext struct {
	tele.Context
	text     string
	callback *tele.Callback
	sent     []interface{}
}

func (f *fakeContext) Sender() *tele.User { return &tele.User{ID: 7} }
func (f *fakeContext) Text() string { return f.text }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) Respond(resp ...*tele.CallbackResponse) error { return nil }

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		gate           fakeGate
		text           string
		callback       *tele.Callback
		expectNext     bool
		expectRedirect bool
	}{
		{name: "signed in", gate: fakeGate{authenticated: true}, text: "hello", expectNext: true},
		{name: "start command", text: "/start", expectNext: true},
		{name: "typing email", gate: fakeGate{inLogin: true}, text: "a@b.co", expectNext: true},
		{name: "anonymous text", text: "hello", expectRedirect: true},
		{name: "anonymous button", callback: &tele.Callback{Unique: "fetch"}, expectRedirect: true},
		{name: "button during login", gate: fakeGate{inLogin: true}, callback: &tele.Callback{Unique: "quiz"}, expectRedirect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := tt.gate
			called := false
			handler := AuthMiddleware(&gate, zap.NewNop())(func(tele.Context) error {
				called = true
				return nil
			})

			c := &fakeContext{text: tt.text, callback: tt.callback}
			require.NoError(t, handler(c))

			assert.Equal(t, tt.expectNext, called)
			assert.Equal(t, tt.expectRedirect, gate.begun)
			if tt.expectRedirect {
				assert.Equal(t, []interface{}{loginPrompt}, c.sent)
			}
		})
	}
}
