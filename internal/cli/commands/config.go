package commands

import (
	"io"
	"net/http"

	"adaptix-hrms/internal/hrclient"
)

// Config holds the session and output streams shared by every leavectl command
type Config struct {
	BaseURL    string
	Token      string
	CompanyID  string
	HTTPClient *http.Client
	Out        io.Writer
	Err        io.Writer
}

func (c Config) client() (*hrclient.Client, error) {
	return hrclient.New(hrclient.Session{
		BaseURL:    c.BaseURL,
		Token:      c.Token,
		CompanyID:  c.CompanyID,
		HTTPClient: c.HTTPClient,
	})
}
