package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/nav"
	"github.com/goliatone/go-equitysite/pkg/openapi"
	"github.com/goliatone/go-equitysite/pkg/render"
)

const (
	SessionCookie  = "equitysite_session"
	CSRFHeader     = "X-CSRF-Token"
	ViewportHeader = "Viewport-Width"
	FetchHeader    = "X-Requested-With"

	// MsgSubmitFailed is shown above the form when the sink rejects a request.
	MsgSubmitFailed = "We could not send your request right now. Please try again shortly."

	maxBodyBytes = 64 << 10
)

var errUnknownAction = errors.New("server: unknown nav action")

type sessionKey struct{}

func sessionFrom(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey{}).(*Session)
	return sess
}

func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			sess, _ = s.sessions.Get(cookie.Value)
		}
		if sess == nil {
			created, err := s.sessions.Create()
			if err != nil {
				s.logger.Printf("create session: %v", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			sess = created
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		if width := viewportWidth(r); width > 0 {
			sess.Page.SetViewportWidth(width)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (s *Server) csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r.Context())
		token := r.Header.Get(CSRFHeader)
		if token == "" {
			token = r.PostFormValue(render.CSRFFieldName)
		}
		if sess == nil || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRF)) != 1 {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func viewportWidth(r *http.Request) int {
	raw := r.URL.Query().Get("vw")
	if raw == "" {
		raw = r.Header.Get(ViewportHeader)
	}
	width, err := strconv.Atoi(raw)
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

func isFetch(r *http.Request) bool {
	return r.Header.Get(FetchHeader) == "fetch"
}

func (s *Server) snapshot(sess *Session) render.PageModel {
	var page render.PageModel
	sess.Do(func() {
		page = render.PageModel{
			Site:   s.site,
			Header: sess.Header.State(),
			Mode:   sess.Header.Mode(),
			Form:   sess.Form.Snapshot(),
		}
	})
	return page
}

// respond answers a state change: JSON when negotiated, a fragment for
// fetch requests, a 303 to redirect for successful plain form posts and the
// full page otherwise.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess *Session, fragment render.Fragment, status int, redirect string, formErrors ...string) {
	renderer, err := s.registry.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		renderer = s.html
	}
	switch {
	case renderer.Name() != s.html.Name():
		s.write(w, r, renderer, sess, render.FragmentPage, status, formErrors)
	case isFetch(r):
		s.write(w, r, s.html, sess, fragment, status, formErrors)
	case redirect != "" && status < http.StatusMultipleChoices:
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	default:
		s.write(w, r, s.html, sess, render.FragmentPage, status, formErrors)
	}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, renderer render.Renderer, sess *Session, fragment render.Fragment, status int, formErrors []string) {
	out, err := renderer.Render(r.Context(), s.snapshot(sess), render.RenderOptions{
		Fragment:   fragment,
		Theme:      s.theme,
		Hidden:     render.MergeHiddenFields(nil, render.CSRFToken(sess.CSRF)),
		FormErrors: formErrors,
		Now:        s.clock.Now(),
	})
	if err != nil {
		s.logger.Printf("render %s: %v", renderer.Name(), err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("write json response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	out, err := s.contract.JSON()
	if err != nil {
		s.logger.Printf("openapi: %v", err)
		http.Error(w, "openapi unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func (s *Server) handleNavTree(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"entries": s.tree.Entries()})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, sessionFrom(r.Context()), render.FragmentPage, http.StatusOK, "")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, s.json, sessionFrom(r.Context()), render.FragmentPage, http.StatusOK, nil)
}

func (s *Server) handleMenuToggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Do(sess.Header.ToggleMenu)
	s.respond(w, r, sess, render.FragmentHeader, http.StatusOK, "/")
}

func (s *Server) handleCallToAction(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	var err error
	sess.Do(func() {
		_, err = sess.Header.CallToAction()
	})
	if err != nil {
		s.logger.Printf("call to action: %v", err)
		http.Error(w, "navigation unavailable", http.StatusInternalServerError)
		return
	}
	s.respond(w, r, sess, render.FragmentHeader, http.StatusOK, "/#"+nav.ContactAnchor)
}

func (s *Server) handleNavAction(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	id := chi.URLParam(r, "id")
	action := chi.URLParam(r, "action")

	var (
		scrolled bool
		err      error
	)
	sess.Do(func() {
		switch action {
		case "toggle":
			err = sess.Header.SelectDropdown(id)
		case "enter":
			err = sess.Header.HoverEnter(id)
		case "leave":
			err = sess.Header.HoverLeave(id)
		case "go":
			scrolled, err = sess.Header.Navigate(id)
		default:
			err = errUnknownAction
		}
	})

	switch {
	case errors.Is(err, nav.ErrUnknownEntry), errors.Is(err, errUnknownAction):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, nav.ErrNoSubmenu):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.logger.Printf("nav %s %s: %v", action, id, err)
		http.Error(w, "navigation unavailable", http.StatusInternalServerError)
		return
	}

	redirect := "/"
	if scrolled {
		if entry, ok := s.tree.Find(id); ok {
			redirect = "/" + entry.Anchor
		}
	}
	s.respond(w, r, sess, render.FragmentHeader, http.StatusOK, redirect)
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	y, err := strconv.Atoi(r.PostFormValue("y"))
	if err != nil {
		http.Error(w, "y must be an integer", http.StatusBadRequest)
		return
	}
	sess.Page.DispatchScroll(y)
	s.respond(w, r, sess, render.FragmentHeader, http.StatusOK, "/")
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess.Page.DispatchClick(r.PostForm["within"]...)
	s.respond(w, r, sess, render.FragmentHeader, http.StatusOK, "/")
}

func (s *Server) handleContactField(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	field, err := contact.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	value := r.PostFormValue("value")

	sess.Do(func() {
		err = sess.Form.Change(field, value)
	})
	s.respond(w, r, sess, render.FragmentContact, changeStatus(err), "/#"+nav.ContactAnchor)
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	values := make(map[contact.Field]string)
	for _, field := range contact.Fields() {
		if r.PostForm.Has(string(field)) {
			values[field] = r.PostForm.Get(string(field))
		}
	}

	errs, err := s.submit(r.Context(), sess, values)
	switch {
	case err != nil && isSinkError(err):
		s.logger.Printf("contact submit: %v", err)
		s.respond(w, r, sess, render.FragmentContact, http.StatusServiceUnavailable, "", MsgSubmitFailed)
	case err != nil:
		s.respond(w, r, sess, render.FragmentContact, changeStatus(err), "")
	case !errs.Empty():
		s.respond(w, r, sess, render.FragmentContact, http.StatusUnprocessableEntity, "")
	default:
		s.respond(w, r, sess, render.FragmentContact, http.StatusOK, "/#"+nav.ContactAnchor)
	}
}

func (s *Server) handleAPIContact(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	if err := s.contract.ValidateBody(openapi.OpSubmitContact, body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}

	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	values := make(map[contact.Field]string, len(raw))
	for name, value := range raw {
		values[contact.Field(name)] = value
	}

	errs, err := s.submit(r.Context(), sess, values)
	switch {
	case err != nil && isSinkError(err):
		s.logger.Printf("contact submit: %v", err)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": MsgSubmitFailed})
		return
	case err != nil:
		s.writeJSON(w, changeStatus(err), errorBody(err))
		return
	case !errs.Empty():
		out := make(map[string]string, len(errs))
		for field, msg := range errs {
			out[string(field)] = msg
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": out})
		return
	}

	var last *contact.Submission
	sess.Do(func() {
		last = sess.Form.Snapshot().Last
	})
	if last == nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "submission missing"})
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{
		"id":         last.ID.String(),
		"receivedAt": last.ReceivedAt.Format(time.RFC3339Nano),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	s.sessions.Delete(sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// submit applies values and submits, all under the page lock.
func (s *Server) submit(ctx context.Context, sess *Session, values map[contact.Field]string) (contact.FormErrors, error) {
	var (
		errs contact.FormErrors
		err  error
	)
	sess.Do(func() {
		if err = sess.Form.Apply(values); err != nil {
			return
		}
		errs, err = sess.Form.Submit(ctx)
	})
	return errs, err
}

func changeStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, contact.ErrNotEditing), errors.Is(err, contact.ErrDisposed):
		return http.StatusConflict
	case errors.Is(err, contact.ErrUnknownField), errors.Is(err, contact.ErrInvalidChoice):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isSinkError(err error) bool {
	return !errors.Is(err, contact.ErrNotEditing) &&
		!errors.Is(err, contact.ErrDisposed) &&
		!errors.Is(err, contact.ErrUnknownField) &&
		!errors.Is(err, contact.ErrInvalidChoice)
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
