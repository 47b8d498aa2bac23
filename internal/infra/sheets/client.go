package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"github.com/etarang/garba-desk/internal/config"
)

const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

// NewService authenticates against the Sheets API with the configured service
// account. Credentials are validated before any network call.
func NewService(ctx context.Context, cfg *config.Config) (*sheetsapi.Service, error) {
	if err := cfg.ValidateSheets(); err != nil {
		return nil, err
	}

	conf := &jwt.Config{
		Email:      cfg.ServiceAccountEmail,
		PrivateKey: []byte(cfg.ServiceAccountPrivateKey),
		Scopes:     []string{spreadsheetScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return svc, nil
}
