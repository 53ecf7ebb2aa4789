package mailer

import "embed"

const (
	FromName              = "Campsite"
	maxRetries            = 3
	ReviewHiddenTemplate  = "review_hidden.tmpl"
	OwnerResponseTemplate = "owner_response.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
