// Package shell is the routed console shell: a login screen while no session
// exists, otherwise the sidebar plus exactly one mounted page.
package shell

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/session"
	"github.com/GTDGit/om_console/internal/sse"
	"github.com/GTDGit/om_console/internal/utils"
)

// Page is a mountable console page.
type Page interface {
	Name() string
	Mount(ctx context.Context) error
	Refresh(ctx context.Context) error
	Unmount()
	Snapshot() any
}

// SessionResetter is implemented by pages that keep per-session flags.
type SessionResetter interface {
	ResetSession()
}

// SessionState reports whether the console is signed in.
type SessionState interface {
	State() session.State
}

// ThemeSource is the read-only dark mode flag handed to every page.
type ThemeSource interface {
	Dark() bool
}

// Screen names what the shell renders.
type Screen string

const (
	ScreenLogin   Screen = "login"
	ScreenConsole Screen = "console"
)

// Layout is the rendered shell frame.
type Layout struct {
	Screen Screen   `json:"screen"`
	Page   string   `json:"page,omitempty"`
	Pages  []string `json:"pages"`
	Theme  string   `json:"theme"`
	Dark   bool     `json:"dark"`
}

type Shell struct {
	session   SessionState
	publisher sse.ToastPublisher
	theme     ThemeSource

	mu      sync.Mutex
	pages   map[string]Page
	order   []string
	current Page
}

// New builds a shell over pages; the first page is the landing page. A nil
// theme renders light.
func New(sess SessionState, publisher sse.ToastPublisher, theme ThemeSource, pages ...Page) *Shell {
	if publisher == nil {
		publisher = sse.NopPublisher{}
	}
	s := &Shell{session: sess, publisher: publisher, theme: theme, pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		s.pages[p.Name()] = p
		s.order = append(s.order, p.Name())
	}
	return s
}

// Page returns a registered page by name.
func (s *Shell) Page(name string) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrUnknownPage, name)
	}
	return p, nil
}

// Landing is the page shown right after login.
func (s *Shell) Landing() string {
	if len(s.order) == 0 {
		return ""
	}
	return s.order[0]
}

// Navigate mounts page name, unmounting the previous page first. Selecting
// the page already shown refreshes it.
func (s *Shell) Navigate(ctx context.Context, name string) (Page, error) {
	if s.session.State() != session.Authenticated {
		return nil, utils.ErrLoginRequired
	}
	s.mu.Lock()
	next, ok := s.pages[name]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", utils.ErrUnknownPage, name)
	}
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if prev == next {
		return next, next.Refresh(ctx)
	}
	if prev != nil {
		prev.Unmount()
	}
	log.Debug().Str("page", name).Msg("Mounting page")
	return next, next.Mount(ctx)
}

// Current returns the mounted page, if any.
func (s *Shell) Current() (Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

// Active returns the mounted page when it is name. Pages that are not
// mounted cannot be driven.
func (s *Shell) Active(name string) (Page, error) {
	if s.session.State() != session.Authenticated {
		return nil, utils.ErrLoginRequired
	}
	p, err := s.Page(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != p {
		return nil, utils.ErrViewNotMounted
	}
	return p, nil
}

// Reset returns the shell to the login screen: the mounted page is torn down
// and per-session page flags are forgotten. It is registered as the session
// clear listener.
func (s *Shell) Reset() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	pages := make([]Page, 0, len(s.order))
	for _, name := range s.order {
		pages = append(pages, s.pages[name])
	}
	s.mu.Unlock()

	if prev != nil {
		prev.Unmount()
	}
	for _, p := range pages {
		if r, ok := p.(SessionResetter); ok {
			r.ResetSession()
		}
	}
	s.publisher.SessionEnded()
	log.Info().Msg("Console session ended")
}

// Dark reports the theme pages render with.
func (s *Shell) Dark() bool {
	return s.theme != nil && s.theme.Dark()
}

// Theme returns "dark" or "light".
func (s *Shell) Theme() string {
	if s.Dark() {
		return "dark"
	}
	return "light"
}

// Layout describes the current frame.
func (s *Shell) Layout() Layout {
	out := Layout{
		Screen: ScreenLogin,
		Pages:  append([]string(nil), s.order...),
		Theme:  s.Theme(),
		Dark:   s.Dark(),
	}
	if s.session.State() != session.Authenticated {
		return out
	}
	out.Screen = ScreenConsole
	if p, ok := s.Current(); ok {
		out.Page = p.Name()
	}
	return out
}
