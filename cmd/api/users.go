package main

import (
	"encoding/json"
	"net/http"

	"campsite/internal/domain/users"
)

type userKey string

const userCtx userKey = "user"

func getUserFromContext(r *http.Request) *users.User {
	user, _ := r.Context().Value(userCtx).(*users.User)
	return user
}

type PushTokenPayload struct {
	Token      string          `json:"token" validate:"required,max=255"`
	DeviceInfo json.RawMessage `json:"device_info"`
}

// registerPushTokenHandler godoc
//
//	@Summary		Register a push token
//	@Description	Stores or refreshes the Expo push token of the signed-in user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	PushTokenPayload	true	"Expo push token"
//	@Success		204		"Token saved"
//	@Failure		400		{object}	error	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/users/push-token [post]
func (app *application) registerPushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload PushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if err := app.store.PushTokens.AddOrUpdatePushToken(r.Context(), user.ID, payload.Token, payload.DeviceInfo); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// removePushTokenHandler godoc
//
//	@Summary		Remove a push token
//	@Description	Deletes the given Expo push token for the signed-in user
//	@Tags			users
//	@Accept			json
//	@Success		204	"Token removed"
//	@Failure		400	{object}	error	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/users/push-token [delete]
func (app *application) removePushTokenHandler(w http.ResponseWriter, r *http.Request) {
	var payload PushTokenPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if err := app.store.PushTokens.RemovePushToken(r.Context(), user.ID, payload.Token); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
