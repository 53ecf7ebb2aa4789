package notifications

import (
	"context"
	"errors"
	"fmt"

	"campsite/internal/domain/pushtokens"

	"github.com/9ssi7/exponent"
)

type ReviewEvent string

const (
	ReviewHidden        ReviewEvent = "HIDDEN"
	ReviewRestored      ReviewEvent = "RESTORED"
	ReviewOwnerResponse ReviewEvent = "OWNER_RESPONSE"
)

// SendReviewNotification pushes a review event to the review's author on all
// of their registered devices. Best-effort: callers run it in a goroutine
// and only log the returned error.
func SendReviewNotification(ctx context.Context, push PushSender, tokens pushtokens.Store, authorID int64, event ReviewEvent, reviewID int64) error {
	tokensMap, err := tokens.GetTokensByUserIDs(ctx, []int64{authorID})
	if err != nil {
		return err
	}
	deviceTokens := tokensMap[authorID]
	if len(deviceTokens) == 0 {
		return errors.New("no push tokens")
	}

	var title, body string
	switch event {
	case ReviewHidden:
		title = "Review Hidden"
		body = "One of your reviews was hidden by a moderator."
	case ReviewRestored:
		title = "Review Restored"
		body = "One of your reviews is visible again."
	case ReviewOwnerResponse:
		title = "Owner Replied"
		body = "A campsite owner responded to your review."
	default:
		title = "Review Update"
		body = fmt.Sprintf("Your review (ID: %d) has an update.", reviewID)
	}

	msgs := make([]*exponent.Message, 0, len(deviceTokens))
	for _, t := range deviceTokens {
		token := exponent.Token(t)
		msg := &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			// Drives deep linking when the notification is tapped.
			Data: map[string]string{
				"type":     "review",
				"event":    string(event),
				"reviewId": fmt.Sprintf("%d", reviewID),
				"screen":   "my-reviews-screen",
			},
		}
		msgs = append(msgs, msg)
	}

	_, err = push.Publish(ctx, msgs)
	if err != nil {
		return err
	}
	return nil
}
