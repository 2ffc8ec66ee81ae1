package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"github.com/gravyapp/gravy/internal/domain"
)

const facebookProfileURL = "https://graph.facebook.com/v19.0/me?fields=id,name,first_name,last_name,email,picture.type(large)"

// facebookProfile is the portion of the Graph API /me response we care about.
type facebookProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// Facebook implements the Facebook login exchange.
type Facebook struct {
	config     *oauth2.Config
	profileURL string
}

// NewFacebook creates a Facebook provider. callbackURL must match the
// redirect URI configured in the Facebook app exactly.
func NewFacebook(clientID, clientSecret, callbackURL string) *Facebook {
	return &Facebook{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		profileURL: facebookProfileURL,
	}
}

func (p *Facebook) Name() string { return "facebook" }

func (p *Facebook) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for an access token, then calls
// the Graph API for the profile.
func (p *Facebook) Exchange(ctx context.Context, code string) (*domain.ExternalProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchanging facebook code: %v", ErrExchange, err)
	}

	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.profileURL)
	if err != nil {
		return nil, fmt.Errorf("%w: calling facebook profile API: %v", ErrExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: facebook profile API returned status %d", ErrExchange, resp.StatusCode)
	}

	var fb facebookProfile
	if err := json.NewDecoder(resp.Body).Decode(&fb); err != nil {
		return nil, fmt.Errorf("%w: decoding facebook profile: %v", ErrExchange, err)
	}

	if fb.ID == "" {
		return nil, fmt.Errorf("%w: facebook returned an empty subject id", ErrExchange)
	}

	profile := &domain.ExternalProfile{
		ExternalID: fb.ID,
		FullName:   fb.Name,
		FirstName:  fb.FirstName,
		LastName:   fb.LastName,
	}
	if fb.Email != "" {
		profile.Email = &fb.Email
	}
	if fb.Picture.Data.URL != "" {
		profile.ImageURL = &fb.Picture.Data.URL
	}

	return profile, nil
}
