package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campsite/internal/domain/campsites"
	"campsite/internal/domain/moderation"
	"campsite/internal/domain/reviews"
	"campsite/internal/notifications"
	"campsite/internal/params"

	"github.com/go-chi/chi/v5"
)

type HideReviewPayload struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type CampsiteDecisionPayload struct {
	AdminNote *string `json:"admin_note" validate:"omitempty,max=1000"`
}

// getReportedReviewsHandler godoc
//
//	@Summary		Moderation queue
//	@Description	Reported, still-visible reviews ordered by report count
//	@Tags			admin
//	@Produce		json
//	@Param			page	query		int	false	"Page number"
//	@Param			limit	query		int	false	"Page size"
//	@Success		200		{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/reported [get]
func (app *application) getReportedReviewsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.moderation.ReportedReviews(r.Context(), p.Page, p.Limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"reviews":    list,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// hideReviewHandler godoc
//
//	@Summary		Hide a review
//	@Description	Removes a review from public listings and records the action
//	@Tags			admin
//	@Accept			json
//	@Param			reviewID	path	int					true	"Review ID"
//	@Param			payload		body	HideReviewPayload	true	"Hide reason"
//	@Success		204			"Review hidden"
//	@Failure		404			{object}	error	"Review not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/{reviewID}/hide [post]
func (app *application) hideReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid review ID"))
		return
	}

	var payload HideReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	admin := getUserFromContext(r)

	if err := app.moderation.HideReview(r.Context(), reviewID, admin.ID, payload.Reason); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if review, err := app.store.Reviews.GetByID(r.Context(), reviewID); err == nil {
		app.notifyReviewAuthor(review, notifications.ReviewHidden, payload.Reason)
	}

	w.WriteHeader(http.StatusNoContent)
}

// unhideReviewHandler godoc
//
//	@Summary		Restore a review
//	@Description	Puts a hidden review back into public listings
//	@Tags			admin
//	@Param			reviewID	path	int	true	"Review ID"
//	@Success		204			"Review restored"
//	@Failure		404			{object}	error	"Review not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/{reviewID}/unhide [post]
func (app *application) unhideReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid review ID"))
		return
	}

	admin := getUserFromContext(r)

	if err := app.moderation.UnhideReview(r.Context(), reviewID, admin.ID); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if review, err := app.store.Reviews.GetByID(r.Context(), reviewID); err == nil {
		app.notifyReviewAuthor(review, notifications.ReviewRestored, "")
	}

	w.WriteHeader(http.StatusNoContent)
}

// dismissReportsHandler godoc
//
//	@Summary		Dismiss reports
//	@Description	Clears the reported flag on a review, keeping report rows as audit trail
//	@Tags			admin
//	@Param			reviewID	path	int	true	"Review ID"
//	@Success		204			"Reports dismissed"
//	@Failure		404			{object}	error	"Review not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/{reviewID}/dismiss [post]
func (app *application) dismissReportsHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid review ID"))
		return
	}

	admin := getUserFromContext(r)

	if err := app.moderation.DismissReports(r.Context(), reviewID, admin.ID); err != nil {
		switch {
		case errors.Is(err, reviews.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listCampsitesHandler godoc
//
//	@Summary		List campsites for review
//	@Description	Campsite listings filtered by status, newest first
//	@Tags			admin
//	@Produce		json
//	@Param			status	query		string	false	"pending | approved | rejected"
//	@Param			page	query		int		false	"Page number"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{array}		campsites.Campsite
//	@Security		ApiKeyAuth
//	@Router			/admin/campsites [get]
func (app *application) listCampsitesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	filter := campsites.ListFilter{Page: p.Page, Limit: p.Limit}
	switch s := campsites.Status(q.Get("status")); s {
	case campsites.StatusPending, campsites.StatusApproved, campsites.StatusRejected:
		filter.Status = &s
	}

	list, err := app.store.Campsites.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// approveCampsiteHandler godoc
//
//	@Summary		Approve a campsite
//	@Description	Marks a pending campsite approved so it starts accepting reviews
//	@Tags			admin
//	@Accept			json
//	@Param			campsiteID	path	int						true	"Campsite ID"
//	@Param			payload		body	CampsiteDecisionPayload	false	"Optional admin note"
//	@Success		204			"Campsite approved"
//	@Failure		404			{object}	error	"Campsite not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/campsites/{campsiteID}/approve [post]
func (app *application) approveCampsiteHandler(w http.ResponseWriter, r *http.Request) {
	campsiteID, err := strconv.ParseInt(chi.URLParam(r, "campsiteID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid campsite ID"))
		return
	}

	var payload CampsiteDecisionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	admin := getUserFromContext(r)

	if err := app.moderation.ApproveCampsite(r.Context(), campsiteID, admin.ID, payload.AdminNote); err != nil {
		switch {
		case errors.Is(err, campsites.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// rejectCampsiteHandler godoc
//
//	@Summary		Reject a campsite
//	@Description	Marks a pending campsite rejected with an optional note to the owner
//	@Tags			admin
//	@Accept			json
//	@Param			campsiteID	path	int						true	"Campsite ID"
//	@Param			payload		body	CampsiteDecisionPayload	false	"Optional admin note"
//	@Success		204			"Campsite rejected"
//	@Failure		404			{object}	error	"Campsite not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/campsites/{campsiteID}/reject [post]
func (app *application) rejectCampsiteHandler(w http.ResponseWriter, r *http.Request) {
	campsiteID, err := strconv.ParseInt(chi.URLParam(r, "campsiteID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid campsite ID"))
		return
	}

	var payload CampsiteDecisionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	admin := getUserFromContext(r)

	if err := app.moderation.RejectCampsite(r.Context(), campsiteID, admin.ID, payload.AdminNote); err != nil {
		switch {
		case errors.Is(err, campsites.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getModerationLogsHandler godoc
//
//	@Summary		Moderation audit log
//	@Description	Append-only record of admin actions, filterable by admin, action and entity
//	@Tags			admin
//	@Produce		json
//	@Param			admin_id	query		int		false	"Filter by admin"
//	@Param			action_type	query		string	false	"Filter by action type"
//	@Param			entity_type	query		string	false	"Filter by entity type"
//	@Param			entity_id	query		int		false	"Filter by entity"
//	@Param			from		query		string	false	"RFC3339 lower bound"
//	@Param			to			query		string	false	"RFC3339 upper bound"
//	@Success		200			{array}		moderation.Log
//	@Security		ApiKeyAuth
//	@Router			/admin/moderation-logs [get]
func (app *application) getModerationLogsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	filter := moderation.LogFilter{Page: p.Page, Limit: p.Limit}

	if v, err := strconv.ParseInt(q.Get("admin_id"), 10, 64); err == nil {
		filter.AdminID = &v
	}
	if v := q.Get("action_type"); v != "" {
		filter.ActionType = &v
	}
	if v := q.Get("entity_type"); v != "" {
		filter.EntityType = &v
	}
	if v, err := strconv.ParseInt(q.Get("entity_id"), 10, 64); err == nil {
		filter.EntityID = &v
	}
	if t, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		filter.From = &t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		filter.To = &t
	}

	logs, err := app.moderation.Logs(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, logs); err != nil {
		app.internalServerError(w, r, err)
	}
}
