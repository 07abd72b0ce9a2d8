// Package web exposes the login flow and the task API over HTTP.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/and161185/zserver/internal/model"
	"github.com/and161185/zserver/internal/reqctx"
	"github.com/and161185/zserver/internal/service"
)

// AuthTokenCookie carries the wire token between requests.
const AuthTokenCookie = "auth-token"

// Server wires services into HTTP handlers.
type Server struct {
	auth  service.AuthService
	tasks service.TaskService
	log   *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, tasks service.TaskService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{auth: auth, tasks: tasks, log: log}
}

// Handler returns the routes wrapped in recover and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("POST /api/logoff", s.logoff)
	mux.HandleFunc("GET /hello", s.requireCtx(withCtx(s.hello)))
	mux.HandleFunc("POST /api/pwd", s.requireCtx(withCtx(s.changePwd)))

	mux.HandleFunc("GET /api/tasks", s.requireCtx(withCtx(s.listTasks)))
	mux.HandleFunc("POST /api/tasks", s.requireCtx(withCtx(s.createTask)))
	mux.HandleFunc("GET /api/tasks/{id}", s.requireCtx(withCtx(s.getTask)))
	mux.HandleFunc("PATCH /api/tasks/{id}", s.requireCtx(withCtx(s.updateTask)))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.requireCtx(withCtx(s.deleteTask)))

	return Logging(s.log)(Recover(s.log)(mux))
}

type loginPayload struct {
	Username string `json:"username"`
	Pwd      string `json:"pwd"`
}

type resultBody struct {
	Result struct {
		Success bool `json:"success"`
	} `json:"result"`
}

func success() resultBody {
	var b resultBody
	b.Result.Success = true
	return b
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Username == "" {
		writeErr(w, r, errBadBody)
		return
	}
	tk, err := s.auth.Login(r.Context(), p.Username, p.Pwd, r.RemoteAddr)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     AuthTokenCookie,
		Value:    tk.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, success())
}

func (s *Server) logoff(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, success())
}

type pwdPayload struct {
	Pwd    string `json:"pwd"`
	NewPwd string `json:"new_pwd"`
}

func (s *Server) changePwd(w http.ResponseWriter, r *http.Request, c reqctx.Ctx) {
	var p pwdPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, r, errBadBody)
		return
	}
	if err := s.auth.ChangePwd(r.Context(), c, p.Pwd, p.NewPwd); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success())
}

func (s *Server) hello(w http.ResponseWriter, _ *http.Request, c reqctx.Ctx) {
	writeJSON(w, http.StatusOK, map[string]int64{"user_id": c.UserID()})
}

// withCtx extracts the ctx placed by requireCtx.
func withCtx(h func(http.ResponseWriter, *http.Request, reqctx.Ctx)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := reqctx.FromContext(r.Context())
		if !ok {
			writeErr(w, r, errNoReqCtx)
			return
		}
		h(w, r, c)
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errBadID
	}
	return id, nil
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request, c reqctx.Ctx) {
	tasks, err := s.tasks.List(r.Context(), c)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

type taskPayload struct {
	Title *string `json:"title"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request, c reqctx.Ctx) {
	var p taskPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Title == nil {
		writeErr(w, r, errBadBody)
		return
	}
	t, err := s.tasks.Create(r.Context(), c, model.TaskForCreate{Title: *p.Title})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, c reqctx.Ctx) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := s.tasks.Get(r.Context(), c, id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, c reqctx.Ctx) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var p taskPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, r, errBadBody)
		return
	}
	t, err := s.tasks.Update(r.Context(), c, id, model.TaskForUpdate{Title: p.Title})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, c reqctx.Ctx) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := s.tasks.Delete(r.Context(), c, id); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
