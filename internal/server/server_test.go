package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/dom"
	"github.com/goliatone/go-equitysite/pkg/render"
	"github.com/goliatone/go-equitysite/pkg/testsupport"
)

type harness struct {
	t       *testing.T
	srv     *Server
	handler http.Handler
	clock   *clockwork.FakeClock
	sink    *contact.Recorder
	cookie  *http.Cookie
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	clock := testsupport.FakeClock()
	sink := contact.NewRecorder()

	options := append([]Option{WithClock(clock), WithSink(sink)}, opts...)
	srv, err := New(testsupport.Site(t), options...)
	require.NoError(t, err)
	t.Cleanup(srv.Sessions().CloseAll)

	return &harness{t: t, srv: srv, handler: srv.Handler(), clock: clock, sink: sink}
}

type reqOption func(*http.Request)

func fetch(r *http.Request) { r.Header.Set(FetchHeader, "fetch") }

func acceptJSON(r *http.Request) { r.Header.Set("Accept", "application/json") }

func header(name, value string) reqOption {
	return func(r *http.Request) { r.Header.Set(name, value) }
}

func (h *harness) do(method, target string, body io.Reader, opts ...reqOption) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			h.cookie = c
		}
	}
	return rec
}

func (h *harness) session() *Session {
	h.t.Helper()
	require.NotNil(h.t, h.cookie, "no session cookie yet")
	sess, ok := h.srv.Sessions().Get(h.cookie.Value)
	require.True(h.t, ok, "session not found")
	return sess
}

// start opens a session and returns its CSRF token.
func (h *harness) start(opts ...reqOption) string {
	h.t.Helper()
	rec := h.do(http.MethodGet, "/", nil, opts...)
	require.Equal(h.t, http.StatusOK, rec.Code)
	return h.session().CSRF
}

func (h *harness) post(target string, form url.Values, opts ...reqOption) *httptest.ResponseRecorder {
	h.t.Helper()
	opts = append([]reqOption{header("Content-Type", "application/x-www-form-urlencoded")}, opts...)
	return h.do(http.MethodPost, target, strings.NewReader(form.Encode()), opts...)
}

func (h *harness) state() map[string]any {
	h.t.Helper()
	rec := h.do(http.MethodGet, "/api/state", nil)
	require.Equal(h.t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

// openDropdowns lists the nav items the JSON state reports as open.
func (h *harness) openDropdowns() []string {
	h.t.Helper()
	items, _ := h.state()["header"].(map[string]any)["items"].([]any)
	var open []string
	for _, raw := range items {
		item := raw.(map[string]any)
		if item["open"] == true {
			open = append(open, item["id"].(string))
		}
	}
	return open
}

func csrfForm(token string, pairs ...string) url.Values {
	form := url.Values{render.CSRFFieldName: {token}}
	for i := 0; i+1 < len(pairs); i += 2 {
		form.Add(pairs[i], pairs[i+1])
	}
	return form
}

func validContactForm(token string) url.Values {
	data := testsupport.ValidFormData()
	form := csrfForm(token)
	for _, field := range contact.Fields() {
		form.Set(string(field), data.Get(field))
	}
	return form
}

func TestPage_CreatesSessionAndEmbedsToken(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, h.cookie)
	assert.True(t, h.cookie.HttpOnly)

	body := rec.Body.String()
	assert.Contains(t, body, `<header id="site-header"`)
	assert.Contains(t, body, `name="_csrf" value="`+h.session().CSRF+`"`)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, h.srv.Sessions().Len())

	h.do(http.MethodGet, "/", nil)
	assert.Equal(t, 1, h.srv.Sessions().Len(), "cookie should reuse the session")
}

func TestPage_ViewportSelectsLayout(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/?vw=375", nil)
	assert.Contains(t, rec.Body.String(), `data-mode="mobile"`)

	rec = h.do(http.MethodGet, "/", nil, header(ViewportHeader, "1280"))
	assert.Contains(t, rec.Body.String(), `data-mode="desktop"`)
}

func TestMutations_RequireCSRF(t *testing.T) {
	h := newHarness(t)
	h.start()

	rec := h.post("/nav/menu", url.Values{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.post("/nav/menu", csrfForm("wrong"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMenuToggle_PlainPostRedirects(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/nav/menu", csrfForm(token))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	hdr := h.state()["header"].(map[string]any)
	assert.Equal(t, true, hdr["menuOpen"])
}

func TestNavToggle_FetchReturnsHeaderFragment(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/nav/about/toggle", url.Values{}, fetch, header(CSRFHeader, token))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), `<header id="site-header"`))
	assert.Equal(t, 1, strings.Count(body, `<div class="dropdown">`))

	rec = h.post("/nav/about/toggle", url.Values{}, fetch, header(CSRFHeader, token))
	assert.NotContains(t, rec.Body.String(), `<div class="dropdown">`)
}

func TestNavActions(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/nav/story/go", csrfForm(token))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#about-story", rec.Header().Get("Location"))
	target, _ := h.session().Page.ScrollTarget()
	assert.Equal(t, "about-story", target)

	assert.Equal(t, http.StatusNotFound, h.post("/nav/nope/toggle", csrfForm(token)).Code)
	assert.Equal(t, http.StatusNotFound, h.post("/nav/about/wiggle", csrfForm(token)).Code)
	assert.Equal(t, http.StatusBadRequest, h.post("/nav/home/toggle", csrfForm(token)).Code)

	rec = h.post("/nav/cta", csrfForm(token))
	assert.Equal(t, "/#contact", rec.Header().Get("Location"))
	target, _ = h.session().Page.ScrollTarget()
	assert.Equal(t, "contact", target)
}

func TestNavActions_CloseOpenDropdowns(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	h.post("/nav/services/toggle", csrfForm(token))
	require.Equal(t, []string{"services"}, h.openDropdowns())
	h.post("/nav/menu", csrfForm(token))
	assert.Empty(t, h.openDropdowns())

	h.post("/nav/about/toggle", csrfForm(token))
	require.Equal(t, []string{"about"}, h.openDropdowns())
	h.post("/nav/cta", csrfForm(token))
	assert.Empty(t, h.openDropdowns())
}

func TestHover_IgnoredOnMobile(t *testing.T) {
	h := newHarness(t)
	token := h.start(header(ViewportHeader, "375"))

	h.post("/nav/about/enter", csrfForm(token))
	assert.Empty(t, h.openDropdowns())

	h.post("/nav/about/enter", csrfForm(token), header(ViewportHeader, "1280"))
	assert.Equal(t, []string{"about"}, h.openDropdowns())
}

func TestScrollAndClickEvents(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/events/scroll", url.Values{"y": {"120"}}, fetch, header(CSRFHeader, token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), `<header id="site-header" class="header scrolled"`))

	assert.Equal(t, http.StatusBadRequest, h.post("/events/scroll", url.Values{"y": {"abc"}}, header(CSRFHeader, token)).Code)

	h.post("/nav/services/toggle", csrfForm(token))
	h.post("/events/click", url.Values{"within": {dom.RegionDropdown, dom.RegionNav}}, header(CSRFHeader, token))
	assert.Equal(t, []string{"services"}, h.openDropdowns())

	h.post("/events/click", url.Values{}, header(CSRFHeader, token))
	assert.Empty(t, h.openDropdowns())
}

func TestContactSubmit_InvalidShowsInlineErrors(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/contact", csrfForm(token, "email", "not-an-email"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, contact.MsgNameRequired)
	assert.Contains(t, body, contact.MsgEmailInvalid)
	assert.Equal(t, 0, h.sink.Len())

	rec = h.post("/contact/fields/name", url.Values{"value": {"Ada"}}, fetch, header(CSRFHeader, token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), contact.MsgNameRequired)
	assert.Contains(t, rec.Body.String(), contact.MsgEmailInvalid)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), `<section id="contact"`))
}

func TestContactSubmit_MarkupIsEscapedNotStripped(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/contact", csrfForm(token,
		"name", "<b>",
		"email", "not-an-email",
		"message", "ratio x<y>z matters",
	))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="&lt;b&gt;"`)
	assert.Contains(t, body, `ratio x&lt;y&gt;z matters</textarea>`)
	assert.NotContains(t, body, `value="<b>"`)
	assert.NotContains(t, body, contact.MsgNameRequired)

	data := h.session().Form.Snapshot().Data
	assert.Equal(t, "<b>", data.Name)
	assert.Equal(t, "ratio x<y>z matters", data.Message)
}

func TestContactField_Errors(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	assert.Equal(t, http.StatusNotFound, h.post("/contact/fields/phone", url.Values{"value": {"1"}}, header(CSRFHeader, token)).Code)
	assert.Equal(t, http.StatusBadRequest, h.post("/contact/fields/service", url.Values{"value": {"catering"}}, header(CSRFHeader, token)).Code)
}

func TestContactSubmit_ValidRedirectsAndResets(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/contact", validContactForm(token))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#contact", rec.Header().Get("Location"))
	require.Equal(t, 1, h.sink.Len())

	sub := h.sink.Submissions()[0]
	assert.Equal(t, testsupport.ValidFormData(), sub.Data)

	page := h.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, page, `class="form-success"`)
	assert.Contains(t, page, sub.ID.String())

	rec = h.post("/contact/fields/name", url.Values{"value": {"x"}}, header(CSRFHeader, token), fetch)
	assert.Equal(t, http.StatusConflict, rec.Code)

	sess := h.session()
	h.clock.Advance(contact.ResetDelay)
	testsupport.Eventually(t, time.Second, func() bool {
		return sess.Form.State() == contact.StateEditing
	}, "form should reset after the confirmation delay")
	assert.Equal(t, contact.DefaultFormData(), sess.Form.Snapshot().Data)
}

func TestContactSubmit_SinkFailureKeepsEditing(t *testing.T) {
	failing := contact.SinkFunc(func(context.Context, contact.Submission) error {
		return errors.New("disk full")
	})
	h := newHarness(t, WithSink(failing))
	token := h.start()

	rec := h.post("/contact", validContactForm(token), fetch)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgSubmitFailed)
	assert.Equal(t, contact.StateEditing, h.session().Form.State())
}

func TestAPIContact(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	post := func(body string, opts ...reqOption) *httptest.ResponseRecorder {
		opts = append([]reqOption{header("Content-Type", "application/json")}, opts...)
		return h.do(http.MethodPost, "/api/contact", strings.NewReader(body), opts...)
	}

	assert.Equal(t, http.StatusForbidden, post(`{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"service":"catering"}`, header(CSRFHeader, token)).Code)

	rec := post(`{"email":"ada@"}`, header(CSRFHeader, token))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var invalid struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invalid))
	assert.Equal(t, contact.MsgEmailInvalid, invalid.Errors["email"])
	assert.Len(t, invalid.Errors, 4)

	rec = post(`{"name":"Ada","email":"ada@example.org","organization":"Org","service":"research","message":"Hello"}`, header(CSRFHeader, token))
	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, h.sink.Submissions()[0].ID.String(), receipt["id"])

	assert.Equal(t, http.StatusConflict, post(`{"name":"Again"}`, header(CSRFHeader, token)).Code)

	doc := h.state()
	assert.Equal(t, "submitted", doc["contact"].(map[string]any)["state"])
}

func TestNegotiatedJSON(t *testing.T) {
	h := newHarness(t)
	token := h.start()

	rec := h.post("/nav/menu", csrfForm(token), acceptJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, true, doc["header"].(map[string]any)["menuOpen"])
}

func TestEndSession(t *testing.T) {
	h := newHarness(t)
	token := h.start()
	sess := h.session()

	rec := h.do(http.MethodDelete, "/session", nil, header(CSRFHeader, token))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, h.srv.Sessions().Len())
	assert.Equal(t, 0, sess.Page.Window.ListenerCount(dom.EventScroll))
	assert.True(t, sess.Form.Disposed())
}

func TestStaticEndpoints(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = h.do(http.MethodGet, "/openapi.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"submitContact"`)

	rec = h.do(http.MethodGet, "/api/nav", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree struct {
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	require.NotEmpty(t, tree.Entries)
	assert.Equal(t, "home", tree.Entries[0].ID)

	rec = h.do(http.MethodGet, "/assets/site.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, h.cookie, "static endpoints must not open sessions")
}
