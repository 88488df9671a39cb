package shell

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/om_console/internal/cache"
	"github.com/GTDGit/om_console/internal/session"
	"github.com/GTDGit/om_console/internal/utils"
)

type fakePage struct {
	name string

	mu        sync.Mutex
	mounted   bool
	mounts    int
	refreshes int
	unmounts  int
	resets    int
}

func (p *fakePage) Name() string { return p.name }

func (p *fakePage) Mount(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = true
	p.mounts++
	return nil
}

func (p *fakePage) Refresh(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshes++
	return nil
}

func (p *fakePage) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = false
	p.unmounts++
}

func (p *fakePage) Snapshot() any { return p.name }

func (p *fakePage) ResetSession() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets++
}

type recordingPublisher struct {
	mu    sync.Mutex
	ended int
}

func (r *recordingPublisher) ToastShown(string) {}
func (r *recordingPublisher) ToastCleared()     {}
func (r *recordingPublisher) SessionEnded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended++
}

func newShell(t *testing.T) (*Shell, *session.Store, *fakePage, *fakePage, *recordingPublisher) {
	t.Helper()
	sess := session.New(cache.NewMemoryStore())
	dash := &fakePage{name: "dashboard"}
	inv := &fakePage{name: "inventory"}
	pub := &recordingPublisher{}
	sh := New(sess, pub, nil, dash, inv)
	sess.OnClear(sh.Reset)
	return sh, sess, dash, inv, pub
}

func TestNavigateRequiresSession(t *testing.T) {
	sh, _, dash, _, _ := newShell(t)

	_, err := sh.Navigate(context.Background(), "dashboard")
	assert.ErrorIs(t, err, utils.ErrLoginRequired)
	assert.Zero(t, dash.mounts)
	assert.Equal(t, Layout{Screen: ScreenLogin, Pages: []string{"dashboard", "inventory"}, Theme: "light"}, sh.Layout())
}

func TestNavigateMountsOnePageAtATime(t *testing.T) {
	sh, sess, dash, inv, _ := newShell(t)
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, "access", "refresh"))

	_, err := sh.Navigate(ctx, sh.Landing())
	require.NoError(t, err)
	assert.True(t, dash.mounted)

	_, err = sh.Navigate(ctx, "inventory")
	require.NoError(t, err)
	assert.False(t, dash.mounted)
	assert.Equal(t, 1, dash.unmounts)
	assert.True(t, inv.mounted)
	assert.Equal(t, "inventory", sh.Layout().Page)

	_, err = sh.Navigate(ctx, "inventory")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.mounts)
	assert.Equal(t, 1, inv.refreshes)

	_, err = sh.Navigate(ctx, "settings-typo")
	assert.ErrorIs(t, err, utils.ErrUnknownPage)
	assert.True(t, inv.mounted, "a bad route leaves the current page alone")
}

func TestActiveOnlyReturnsMountedPage(t *testing.T) {
	sh, sess, _, _, _ := newShell(t)
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, "access", ""))
	_, err := sh.Navigate(ctx, "dashboard")
	require.NoError(t, err)

	p, err := sh.Active("dashboard")
	require.NoError(t, err)
	assert.Equal(t, "dashboard", p.Name())

	_, err = sh.Active("inventory")
	assert.ErrorIs(t, err, utils.ErrViewNotMounted)
	_, err = sh.Active("nope")
	assert.ErrorIs(t, err, utils.ErrUnknownPage)
}

func TestLogoutTearsDownAndResets(t *testing.T) {
	sh, sess, dash, inv, pub := newShell(t)
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, "access", "refresh"))
	_, err := sh.Navigate(ctx, "inventory")
	require.NoError(t, err)

	require.NoError(t, sess.Clear(ctx))

	assert.False(t, inv.mounted)
	_, mounted := sh.Current()
	assert.False(t, mounted)
	assert.Equal(t, 1, dash.resets)
	assert.Equal(t, 1, inv.resets)
	assert.Equal(t, 1, pub.ended)
	assert.Equal(t, ScreenLogin, sh.Layout().Screen)

	_, err = sh.Active("inventory")
	assert.ErrorIs(t, err, utils.ErrLoginRequired)
}

func TestForcedLogoutFromAPI(t *testing.T) {
	sh, sess, dash, _, _ := newShell(t)
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, "access", ""))
	_, err := sh.Navigate(ctx, "dashboard")
	require.NoError(t, err)

	sess.ForceLogout()
	assert.False(t, dash.mounted)
	assert.Equal(t, session.Unauthenticated, sess.State())
}

type darkMode bool

func (d darkMode) Dark() bool { return bool(d) }

func TestLayoutCarriesTheme(t *testing.T) {
	sess := session.New(cache.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, sess.SetToken(ctx, "access", ""))

	sh := New(sess, nil, darkMode(true), &fakePage{name: "dashboard"})
	_, err := sh.Navigate(ctx, "dashboard")
	require.NoError(t, err)

	layout := sh.Layout()
	assert.True(t, layout.Dark)
	assert.Equal(t, "dark", layout.Theme)
	assert.Equal(t, "dashboard", layout.Page)

	sh = New(sess, nil, darkMode(false))
	assert.Equal(t, "light", sh.Theme())
	assert.False(t, sh.Layout().Dark)
}
