package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

// sendStatusJSON writes v with a non-200 status. Headers must be in place
// before WriteHeader, so the payload is encoded first.
func sendStatusJSON(w http.ResponseWriter, log *logrus.Logger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to send response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.WithError(err).Debug("unable to write response")
	}
}

func sendJSONOrLog(w http.ResponseWriter, log *logrus.Logger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func badRequest(w http.ResponseWriter, log *logrus.Logger, err error) {
	sendStatusJSON(w, log, http.StatusBadRequest, wrapError(err))
}

func notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

func unauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
}

func internalError(w http.ResponseWriter, log *logrus.Logger, msg string, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	log.WithError(err).Error(msg)
}
