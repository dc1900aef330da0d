package clerk

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// EmailAddress is one entry in a profile's email address list.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// Profile is the identity provider's user object, both as delivered in
// webhook payloads and as returned by the user API.
type Profile struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ImageURL       string         `json:"image_url"`
}

// PrimaryEmail returns the first listed email address, or an empty string.
func (p *Profile) PrimaryEmail() string {
	if len(p.EmailAddresses) > 0 {
		return p.EmailAddresses[0].EmailAddress
	}
	return ""
}

// DisplayName joins first and last name, defaulting to "User" when both are
// empty.
func (p *Profile) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name == "" {
		return "User"
	}
	return name
}

// Event is a parsed identity webhook payload.
type Event struct {
	Type string  `json:"type"`
	Data Profile `json:"data"`
}

// ProfileFetcher fetches a user profile from the identity provider. The user
// read-repair path depends on this instead of the concrete client so tests
// can substitute a fake.
type ProfileFetcher interface {
	FetchUser(userID string) (*Profile, error)
}

// Client calls the identity provider's backend API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL).SetAuthToken(secretKey),
	}
}

// FetchUser retrieves the current profile for a provider user id.
func (cl *Client) FetchUser(userID string) (*Profile, error) {
	resp, err := cl.http.R().Get("/users/" + userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("user API returned %d: %s", resp.StatusCode(), resp.String())
	}

	var profile Profile
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return nil, fmt.Errorf("invalid user API response: %w", err)
	}
	return &profile, nil
}
