package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

func decode(r *http.Request, into any) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, into)
}

func respond(w http.ResponseWriter, status int, data any) {
	if status == http.StatusNoContent || data == nil {
		w.WriteHeader(status)
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("respond marshal failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func respondErr(w http.ResponseWriter, status int, err error) {
	respond(w, status, map[string]string{
		"code":  http.StatusText(status),
		"error": err.Error(),
	})
}
