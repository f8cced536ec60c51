package api

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

type extractResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Method  string `json:"method,omitempty"`
	Pages   int    `json:"pages,omitempty"`
}

type teachResponse struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
