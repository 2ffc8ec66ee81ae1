package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gravyapp/gravy/internal/domain"
)

const googleProfileURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleProfile is the portion of the userinfo response we care about.
type googleProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// Google implements the Google sign-in exchange.
type Google struct {
	config     *oauth2.Config
	profileURL string
}

// NewGoogle creates a Google provider.
func NewGoogle(clientID, clientSecret, callbackURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		profileURL: googleProfileURL,
	}
}

func (p *Google) Name() string { return "google" }

func (p *Google) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for an access token, then calls
// the userinfo endpoint for the profile.
func (p *Google) Exchange(ctx context.Context, code string) (*domain.ExternalProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging google code: %v", ErrExchange, err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.profileURL)
	if err != nil {
		return nil, fmt.Errorf("%w: calling google userinfo API: %v", ErrExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: google userinfo API returned status %d", ErrExchange, resp.StatusCode)
	}

	var g googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return nil, fmt.Errorf("%w: decoding google profile: %v", ErrExchange, err)
	}

	if g.ID == "" {
		return nil, fmt.Errorf("%w: google returned an empty subject id", ErrExchange)
	}

	profile := &domain.ExternalProfile{
		ExternalID: g.ID,
		FullName:   g.Name,
		FirstName:  g.GivenName,
		LastName:   g.FamilyName,
	}
	if g.Email != "" {
		profile.Email = &g.Email
	}
	if g.Picture != "" {
		profile.ImageURL = &g.Picture
	}

	return profile, nil
}
