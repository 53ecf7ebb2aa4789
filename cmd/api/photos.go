package main

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const maxReviewPhotos = 5

// uploadReviewPhotosHandler godoc
//
//	@Summary		Upload review photos
//	@Description	Uploads up to five photos and returns their URLs for use in a review
//	@Tags			reviews
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			photos	formData	file	true	"Photo files"
//	@Success		200		{object}	map[string][]string
//	@Failure		400		{object}	error	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/reviews/photos [post]
func (app *application) uploadReviewPhotosHandler(w http.ResponseWriter, r *http.Request) {
	files, err := app.parsePhotoForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if len(files) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no photos provided"))
		return
	}

	urls, err := app.uploadPhotos(files)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string][]string{"urls": urls}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) parsePhotoForm(w http.ResponseWriter, r *http.Request) ([]*multipart.FileHeader, error) {
	const maxBytes = 15 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	files := r.MultipartForm.File["photos"]
	if len(files) > maxReviewPhotos {
		return nil, fmt.Errorf("maximum %d photos allowed", maxReviewPhotos)
	}

	return files, nil
}

func (app *application) uploadPhotos(files []*multipart.FileHeader) ([]string, error) {
	var urls []string
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}

		url, err := app.uploadPhotoToCloudinary(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("cloudinary upload: %w", err)
		}

		urls = append(urls, url)
	}
	return urls, nil
}

func (app *application) uploadPhotoToCloudinary(file io.Reader) (string, error) {
	resp, err := app.cld.Upload.Upload(
		context.Background(),
		file,
		uploader.UploadParams{
			Folder:   "reviews",
			PublicID: uuid.NewString(),
		},
	)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}
