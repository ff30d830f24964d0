package console

import (
	"context"
	"errors"
	"strings"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/session"
)

// RestoreSession resumes a session persisted by an earlier run.
func (a *App) RestoreSession() (*session.Session, bool) {
	return a.Session.Restore()
}

// Authenticated reports whether an operator is signed in.
func (a *App) Authenticated() bool {
	_, ok := a.Session.Current()
	return ok
}

// Login signs in. On failure the backend's message (or a fixed fallback) is
// shown and no session is created.
func (a *App) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return a.fail(MsgMissingCredentials)
	}

	resp, err := a.API.Login(ctx, &client.LoginRequest{Username: username, Password: password})
	if err != nil {
		// A rejected login is never a session expiry, whatever its wording.
		msg := MsgInvalidCredentials
		var re *client.RemoteError
		if errors.As(err, &re) && re.Message != "" {
			msg = re.Message
		}
		a.logger.Info("console: login failed", "user", username, "error", err)
		return a.fail(msg)
	}

	if err := a.Session.Store(resp.Token, resp.Username); err != nil {
		a.logger.Warn("console: persisting session", "error", err)
	}
	a.reset()
	a.publish(ctx, events.TopicSessionLogin, events.SessionEvent{Username: resp.Username})
	a.notifier.Notify(LevelSuccess, "Welcome, "+resp.Username+"!")
	return nil
}

// Logout ends the session and drops cached data.
func (a *App) Logout(ctx context.Context) error {
	username := a.Session.Username()
	err := a.Session.Clear()
	a.reset()
	if err != nil {
		a.logger.Warn("console: clearing session", "error", err)
	}
	a.publish(ctx, events.TopicSessionLogout, events.SessionEvent{Username: username})
	a.notifier.Notify(LevelSuccess, MsgLoggedOut)
	return nil
}
