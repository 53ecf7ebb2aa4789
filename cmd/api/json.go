package main

import (
	"encoding/json"
	"net/http"

	"campsite/internal/domain/moderation"
	"campsite/internal/domain/reviews"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Categorical enums on review payloads.
	Validate.RegisterValidation("reviewertype", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case reviews.ReviewerTent, reviews.ReviewerRV, reviews.ReviewerVan,
			reviews.ReviewerCabin, reviews.ReviewerFamily, reviews.ReviewerGroup:
			return true
		}
		return false
	})

	Validate.RegisterValidation("reportreason", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case moderation.ReasonSpam, moderation.ReasonOffensive, moderation.ReasonFake,
			moderation.ReasonOffTopic, moderation.ReasonOther:
			return true
		}
		return false
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// it parses body into Go struct.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	type envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	}

	return writeJSON(w, status, &envelope{
		Success: false,
		Message: message,
		Status:  status,
	})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Data any `json:"data"`
	}
	return writeJSON(w, status, &envelope{Data: data})
}
