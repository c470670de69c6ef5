package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/optimistic"
	"github.com/louisbranch/spawnbot/internal/services/web/queries"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	webtemplates "github.com/louisbranch/spawnbot/internal/services/web/templates"
)

// errSignedOut reports a dashboard read without a live session.
var errSignedOut = errors.New("dashboard: no active session")

type service struct {
	loader  *queries.Loader
	actions *actions.Dispatcher
}

func newService(loader *queries.Loader, dispatcher *actions.Dispatcher) service {
	return service{loader: loader, actions: dispatcher}
}

// loadView reads the dashboard and maps it to its view.
func (s service) loadView(ctx context.Context) (webtemplates.DashboardView, error) {
	data := s.loader.Dashboard(ctx)
	if !data.SignedIn() {
		return webtemplates.DashboardView{}, errSignedOut
	}
	encoded, err := snapshot.Encode(data.Hydration())
	if err != nil {
		return webtemplates.DashboardView{}, fmt.Errorf("encode dashboard snapshot: %w", err)
	}
	return webtemplates.DashboardView{
		User:                 data.Session.User,
		Organization:         data.Organization,
		Organizations:        data.Organizations,
		ActiveOrganizationID: data.Session.ActiveOrganizationID,
		Accounts:             snapshot.OtherAccounts(data.DeviceSessions, data.Session.User.ID),
		Invitations:          pendingInvitations(data.Invitations),
		IsAdmin:              s.loader.IsAdmin(ctx),
		Snapshot:             string(encoded),
	}, nil
}

// loadSnapshot returns the hydration payload served to scripts.
func (s service) loadSnapshot(ctx context.Context) ([]byte, error) {
	data := s.loader.Dashboard(ctx)
	if !data.SignedIn() {
		return nil, errSignedOut
	}
	return snapshot.Encode(data.Hydration())
}

// switchOrganization moves the session to organizationID, "" meaning the
// personal workspace. The returned card reflects the authoritative state on
// success and the prior selection with an error on failure.
func (s service) switchOrganization(ctx context.Context, organizationID string) (webtemplates.DashboardView, actionresult.Result[actions.Message]) {
	organizationID = strings.TrimSpace(organizationID)
	prior := ""
	if session := s.loader.Session(ctx); session != nil {
		prior = session.ActiveOrganizationID
	}

	var result actionresult.Result[actions.Message]
	active := optimistic.New(prior)
	_, _ = active.Switch(ctx, organizationID, func(ctx context.Context, tentative string) (string, error) {
		req := actions.SetActiveOrganizationRequest{}
		if tentative != "" {
			req.OrganizationID = &tentative
		}
		result = s.actions.SetActiveOrganization(ctx, req)
		if !result.OK() {
			return "", errors.New(result.Message())
		}
		return tentative, nil
	})

	// The switch changed the session; read it again in a fresh memo.
	fresh := queries.WithState(ctx)
	view := webtemplates.DashboardView{
		Organizations:        s.loader.Organizations(fresh),
		ActiveOrganizationID: active.Value(),
	}
	if session := s.loader.Session(fresh); session != nil {
		view.User = session.User
		if result.OK() {
			view.ActiveOrganizationID = session.ActiveOrganizationID
		}
	}
	if view.ActiveOrganizationID != "" {
		if org := s.loader.FullOrganization(fresh); org != nil && org.ID == view.ActiveOrganizationID {
			view.Organization = org
		} else {
			view.Organization = summaryOrganization(view.Organizations, view.ActiveOrganizationID)
		}
	}
	if !result.OK() {
		view.SwitchError = result.Message()
	}
	return view, result
}

func summaryOrganization(orgs []snapshot.OrganizationSummary, id string) *snapshot.Organization {
	for _, org := range orgs {
		if org.ID == id {
			return &snapshot.Organization{ID: org.ID, Name: org.Name, Slug: org.Slug, Logo: org.Logo}
		}
	}
	return nil
}

func pendingInvitations(invitations []snapshot.Invitation) []snapshot.Invitation {
	pending := make([]snapshot.Invitation, 0, len(invitations))
	for _, invitation := range invitations {
		if invitation.Status == snapshot.InvitationPending {
			pending = append(pending, invitation)
		}
	}
	return pending
}
