package rest

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type PingHandler interface {
	PingHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params)
	HealthHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params)
}

type pingHandler struct{}

func NewPingHandler() PingHandler {
	return &pingHandler{}
}

func (that *pingHandler) PingHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeText(w, "pong")
}

func (that *pingHandler) HealthHandler(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeText(w, "Ok\n")
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
