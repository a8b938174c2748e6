// Package upstream holds the HTTP clients for the engine's external
// collaborators: the membership source the group sync and the API auth
// layer read from, and the webhook the alert scheduler delivers to.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gavelhq/gavel/internal/app/system/groupsync"
)

const defaultRequestTimeout = 10 * time.Second

// MembershipClient reads guild membership from the platform gateway's
// REST surface. It implements groupsync.MembershipSource.
type MembershipClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewMembershipClient creates a client rooted at baseURL. The token, when
// non-empty, is sent as a bearer credential.
func NewMembershipClient(baseURL, token string) *MembershipClient {
	return &MembershipClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

type memberDoc struct {
	UserID  string   `json:"userId"`
	RoleIDs []string `json:"roleIds"`
}

// Snapshot enumerates the guild's members and their roles.
func (c *MembershipClient) Snapshot(ctx context.Context, guildID string) ([]groupsync.Member, error) {
	var docs []memberDoc
	if err := c.get(ctx, fmt.Sprintf("/guilds/%s/members", url.PathEscape(guildID)), &docs); err != nil {
		return nil, err
	}
	members := make([]groupsync.Member, 0, len(docs))
	for _, d := range docs {
		members = append(members, groupsync.Member{UserID: d.UserID, RoleIDs: d.RoleIDs})
	}
	return members, nil
}

// MemberRoles returns one member's roles. A 404 from the gateway maps to
// groupsync.ErrMemberNotFound.
func (c *MembershipClient) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	var doc memberDoc
	path := fmt.Sprintf("/guilds/%s/members/%s", url.PathEscape(guildID), url.PathEscape(userID))
	if err := c.get(ctx, path, &doc); err != nil {
		return nil, err
	}
	return doc.RoleIDs, nil
}

func (c *MembershipClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return groupsync.ErrMemberNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("membership source returned %s for %s", resp.Status, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
