package main

import (
	"net/http"

	"campsite/internal/domain/campsites"
)

type CreateCampsitePayload struct {
	Name        string   `json:"name" validate:"required,max=150"`
	Address     string   `json:"address" validate:"required,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Amenities   []string `json:"amenities" validate:"omitempty,max=30,dive,max=50"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,max=7,dive,url"`
}

// createCampsiteHandler godoc
//
//	@Summary		Submit a campsite
//	@Description	Creates a campsite listing in pending state awaiting admin approval
//	@Tags			campsites
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCampsitePayload	true	"Campsite details"
//	@Success		201		{object}	campsites.Campsite
//	@Failure		400		{object}	error	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/campsites [post]
func (app *application) createCampsiteHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCampsitePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	campsite := &campsites.Campsite{
		OwnerID:     user.ID,
		Name:        payload.Name,
		Address:     payload.Address,
		Description: payload.Description,
		Amenities:   payload.Amenities,
		ImageURLs:   payload.ImageURLs,
	}

	if err := app.store.Campsites.Create(r.Context(), campsite); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, campsite); err != nil {
		app.internalServerError(w, r, err)
	}
}
