package fakeportal

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FRANCK359/smart-search-ai/internal/client/models"
	"github.com/FRANCK359/smart-search-ai/internal/client/validation"
)

func (s *Server) sendContact(w http.ResponseWriter, r *http.Request) {
	var form models.ContactForm
	if !decode(w, r, &form) {
		return
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Subject = strings.TrimSpace(form.Subject)
	if err := validation.Contact(form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg := s.db.addMessage(models.ContactMessage{
		Name:      form.Name,
		Email:     form.Email,
		Subject:   form.Subject,
		Message:   form.Message,
		CreatedAt: s.cfg.Now().UTC().Format(time.RFC3339),
	})
	s.log.Info(r.Context(), "contact message received", "message_id", msg.ID.String())
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Message sent"})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	all := s.db.listMessages()
	lo, hi, pages := paginate(len(all), intParam(r, "page", 1), intParam(r, "limit", 10))
	writeJSON(w, http.StatusOK, models.MessagePage{Messages: all[lo:hi], Pages: pages})
}

func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.db.message(models.ID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) setMessageRead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsRead *bool `json:"is_read"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.IsRead == nil {
		writeError(w, http.StatusBadRequest, "is_read is required")
		return
	}
	msg, ok := s.db.setRead(models.ID(chi.URLParam(r, "id")), *body.IsRead)
	if !ok {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
