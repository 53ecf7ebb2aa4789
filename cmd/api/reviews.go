package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campsite/internal/domain/moderation"
	"campsite/internal/domain/reviews"
	"campsite/internal/domain/votes"
	"campsite/internal/mailer"
	"campsite/internal/notifications"
	"campsite/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type CreateReviewPayload struct {
	Overall     int  `json:"overall" validate:"required,min=1,max=5"`
	Cleanliness *int `json:"cleanliness" validate:"omitempty,min=1,max=5"`
	Staff       *int `json:"staff" validate:"omitempty,min=1,max=5"`
	Facilities  *int `json:"facilities" validate:"omitempty,min=1,max=5"`
	Value       *int `json:"value" validate:"omitempty,min=1,max=5"`
	Location    *int `json:"location" validate:"omitempty,min=1,max=5"`

	Title        string     `json:"title" validate:"required,max=120"`
	Content      string     `json:"content" validate:"required,max=5000"`
	Pros         *string    `json:"pros" validate:"omitempty,max=1000"`
	Cons         *string    `json:"cons" validate:"omitempty,max=1000"`
	ReviewerType string     `json:"reviewer_type" validate:"required,reviewertype"`
	VisitedAt    *time.Time `json:"visited_at"`
	PhotoURLs    []string   `json:"photo_urls" validate:"omitempty,max=5,dive,url"`
}

type OwnerResponsePayload struct {
	Response string `json:"response" validate:"required,max=2000"`
}

type ReportReviewPayload struct {
	Reason  string  `json:"reason" validate:"required,reportreason"`
	Details *string `json:"details" validate:"omitempty,max=1000"`
}

// createReviewHandler godoc
//
//	@Summary		Create a review
//	@Description	Posts a review on an approved campsite; one per user per campsite
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			campsiteID	path		int					true	"Campsite ID"
//	@Param			payload		body		CreateReviewPayload	true	"Review body"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	error	"Bad request"
//	@Failure		409			{object}	error	"Already reviewed"
//	@Security		ApiKeyAuth
//	@Router			/campsites/{campsiteID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	campsiteID, err := strconv.ParseInt(chi.URLParam(r, "campsiteID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid campsite ID"))
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	input := reviews.CreateInput{
		CampsiteID:   campsiteID,
		Overall:      payload.Overall,
		Cleanliness:  payload.Cleanliness,
		Staff:        payload.Staff,
		Facilities:   payload.Facilities,
		Value:        payload.Value,
		Location:     payload.Location,
		Title:        payload.Title,
		Content:      payload.Content,
		Pros:         payload.Pros,
		Cons:         payload.Cons,
		ReviewerType: payload.ReviewerType,
		VisitedAt:    payload.VisitedAt,
		PhotoURLs:    payload.PhotoURLs,
	}

	review, err := app.reviews.Create(r.Context(), input, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrDuplicateReview):
			app.conflictResponse(w, r, err)
		case errors.Is(err, reviews.ErrCampsiteNotEligible):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCampsiteReviewsHandler godoc
//
//	@Summary		List campsite reviews
//	@Description	Paginated visible reviews with optional sort and reviewer type filter
//	@Tags			reviews
//	@Produce		json
//	@Param			campsiteID		path		int		true	"Campsite ID"
//	@Param			page			query		int		false	"Page number"
//	@Param			limit			query		int		false	"Page size"
//	@Param			sort			query		string	false	"newest | rating_high | rating_low | helpful"
//	@Param			reviewer_type	query		string	false	"Filter by reviewer type"
//	@Success		200				{object}	map[string]any
//	@Router			/campsites/{campsiteID}/reviews [get]
func (app *application) getCampsiteReviewsHandler(w http.ResponseWriter, r *http.Request) {
	campsiteID, err := strconv.ParseInt(chi.URLParam(r, "campsiteID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid campsite ID"))
		return
	}

	q := r.URL.Query()
	p := params.ParsePagination(q)

	filter := reviews.ListFilter{
		Page:  p.Page,
		Limit: p.Limit,
		Sort:  params.ParseSort(q, reviews.SortNewest, reviews.SortNewest, reviews.SortRatingHigh, reviews.SortRatingLow, reviews.SortHelpful),
	}
	if rt := q.Get("reviewer_type"); rt != "" {
		filter.ReviewerType = &rt
	}
	filter.ViewerID = app.optionalViewerID(r)

	list, total := app.reviews.List(r.Context(), campsiteID, filter)
	p.ComputeMeta(total)

	response := map[string]any{
		"reviews":    list,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getReviewSummaryHandler godoc
//
//	@Summary		Review summary
//	@Description	Average rating, distribution and category averages for a campsite
//	@Tags			reviews
//	@Produce		json
//	@Param			campsiteID	path		int	true	"Campsite ID"
//	@Success		200			{object}	reviews.Summary
//	@Router			/campsites/{campsiteID}/reviews/summary [get]
func (app *application) getReviewSummaryHandler(w http.ResponseWriter, r *http.Request) {
	campsiteID, err := strconv.ParseInt(chi.URLParam(r, "campsiteID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid campsite ID"))
		return
	}

	summary := app.reviews.GetSummary(r.Context(), campsiteID)

	if err := app.jsonResponse(w, http.StatusOK, summary); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getRecentReviewsHandler godoc
//
//	@Summary		Recent reviews
//	@Description	Newest visible reviews for a campsite card or widget
//	@Tags			reviews
//	@Produce		json
//	@Param			campsiteID	path		int	true	"Campsite ID"
//	@Param			limit		query		int	false	"Max reviews, default 3"
//	@Success		200			{array}		reviews.Review
//	@Router			/campsites/{campsiteID}/reviews/recent [get]
func (app *application) getRecentReviewsHandler(w http.ResponseWriter, r *http.Request) {
	campsiteID, err := strconv.ParseInt(chi.URLParam(r, "campsiteID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid campsite ID"))
		return
	}

	limit := 3
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 10 {
		limit = 10
	}

	list := app.reviews.RecentReviews(r.Context(), campsiteID, limit)

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// toggleHelpfulHandler godoc
//
//	@Summary		Toggle helpful vote
//	@Description	Casts or retracts the caller's helpful vote on a review
//	@Tags			reviews
//	@Produce		json
//	@Param			reviewID	path		int	true	"Review ID"
//	@Success		200			{object}	votes.ToggleResult
//	@Failure		404			{object}	error	"Review not found"
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID}/helpful [post]
func (app *application) toggleHelpfulHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid review ID"))
		return
	}

	user := getUserFromContext(r)

	result, err := app.votes.Toggle(r.Context(), reviewID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, votes.ErrReviewNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// reportReviewHandler godoc
//
//	@Summary		Report a review
//	@Description	Flags a review for admin attention; one report per user per review
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		int					true	"Review ID"
//	@Param			payload		body		ReportReviewPayload	true	"Report reason"
//	@Success		201			{object}	moderation.Report
//	@Failure		409			{object}	error	"Already reported"
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID}/report [post]
func (app *application) reportReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid review ID"))
		return
	}

	var payload ReportReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	report, err := app.moderation.ReportReview(r.Context(), reviewID, user.ID, payload.Reason, payload.Details)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, moderation.ErrSelfReport):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, moderation.ErrAlreadyReported):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, report); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addOwnerResponseHandler godoc
//
//	@Summary		Respond to a review
//	@Description	Lets the campsite owner publish a single response under a review
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		int						true	"Review ID"
//	@Param			payload		body		OwnerResponsePayload	true	"Response text"
//	@Success		200			{object}	reviews.Review
//	@Failure		403			{object}	error	"Not the campsite owner"
//	@Failure		404			{object}	error	"Review not found"
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID}/response [post]
func (app *application) addOwnerResponseHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid review ID"))
		return
	}

	var payload OwnerResponsePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	review, err := app.reviews.AddOwnerResponse(r.Context(), reviewID, user.ID, payload.Response)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, reviews.ErrNotAuthorized):
			app.forbiddenResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.notifyReviewAuthor(review, notifications.ReviewOwnerResponse, payload.Response)

	if err := app.jsonResponse(w, http.StatusOK, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// optionalViewerID extracts the user ID from a bearer token when one is
// present, without failing the request. Public list reads use it so that
// signed-in users still get their helpful votes annotated.
func (app *application) optionalViewerID(r *http.Request) *int64 {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	jwtToken, err := app.authenticator.ValidateAccessToken(parts[1])
	if err != nil {
		return nil
	}

	claims, ok := jwtToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	userID, err := strconv.ParseInt(fmt.Sprintf("%.f", claims["sub"]), 10, 64)
	if err != nil {
		return nil
	}
	return &userID
}

// notifyReviewAuthor fans out push and email notifications for a moderation
// or owner response event on a review. Fire and forget.
func (app *application) notifyReviewAuthor(review *reviews.Review, event notifications.ReviewEvent, detail string) {
	authorID := review.UserID
	reviewID := review.ID

	notifications.CallAsync(func(ctx context.Context) error {
		return notifications.SendReviewNotification(ctx, app.push, app.store.PushTokens, authorID, event, reviewID)
	}, "review push notification")

	author, err := app.store.Users.GetByID(context.Background(), authorID)
	if err != nil {
		app.logger.Errorw("could not load review author for email", "userID", authorID, "error", err)
		return
	}

	switch event {
	case notifications.ReviewHidden:
		data := map[string]any{
			"Username":    author.Name,
			"ReviewTitle": review.Title,
			"Reason":      detail,
		}
		notifications.CallAsync(func(ctx context.Context) error {
			_, err := app.mailer.Send(mailer.ReviewHiddenTemplate, author.Name, author.Email, data)
			return err
		}, "review hidden email")
	case notifications.ReviewOwnerResponse:
		campsiteName := ""
		if cs, err := app.store.Campsites.GetByID(context.Background(), review.CampsiteID); err == nil {
			campsiteName = cs.Name
		}
		data := map[string]any{
			"Username":     author.Name,
			"CampsiteName": campsiteName,
			"ReviewTitle":  review.Title,
			"Response":     detail,
		}
		notifications.CallAsync(func(ctx context.Context) error {
			_, err := app.mailer.Send(mailer.OwnerResponseTemplate, author.Name, author.Email, data)
			return err
		}, "owner response email")
	}
}
