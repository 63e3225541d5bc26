package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordertrack/internal/model"
	"ordertrack/internal/service"
)

type clientRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"required,max=20"`
	Email string `json:"email" validate:"max=100"`
}

func (req clientRequest) input() service.ClientInput {
	return service.ClientInput{Name: req.Name, Phone: req.Phone, Email: req.Email}
}

type clientResponse struct {
	model.Client
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

func newClientResponse(c model.Client) clientResponse {
	return clientResponse{Client: c, WhatsAppLink: c.WhatsAppLink()}
}

func ListClientsHandler(clientSvc *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := clientSvc.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreateClientHandler(clientSvc *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientRequest
		if err := decode(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
		c, err := clientSvc.Create(r.Context(), req.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newClientResponse(c))
	}
}

func GetClientHandler(clientSvc *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := clientSvc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newClientResponse(c))
	}
}

func UpdateClientHandler(clientSvc *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientRequest
		if err := decode(w, r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
		c, err := clientSvc.Update(r.Context(), chi.URLParam(r, "id"), req.input())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newClientResponse(c))
	}
}

func DeleteClientHandler(clientSvc *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := clientSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
