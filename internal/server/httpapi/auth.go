package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds scaleapi.Credentials
	if !s.decodeJSON(w, r, &creds) {
		return
	}

	u, err := s.users.Register(r.Context(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeDetail(w, http.StatusConflict, "Email already registered")
			return
		}
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": u.ID, "email": u.Email})
}

// handleLogin implements the form-encoded token endpoint. The username
// field carries the email.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeFieldErrors(w, http.StatusUnprocessableEntity, []scaleapi.FieldError{
			fieldError("request body is not a valid form", "value_error", "body"),
		})
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	var missing []scaleapi.FieldError
	if username == "" {
		missing = append(missing, fieldError("field required", "value_error.missing", "body", "username"))
	}
	if password == "" {
		missing = append(missing, fieldError("field required", "value_error.missing", "body", "password"))
	}
	if len(missing) > 0 {
		writeFieldErrors(w, http.StatusUnprocessableEntity, missing)
		return
	}

	token, err := s.users.Login(r.Context(), username, password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}
