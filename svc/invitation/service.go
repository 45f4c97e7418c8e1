package invitation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/internal/store"
	"github.com/dmitrymomot/tenantkit/pkg/apperr"
	"github.com/dmitrymomot/tenantkit/pkg/audit"
	"github.com/dmitrymomot/tenantkit/pkg/email"
	"github.com/dmitrymomot/tenantkit/pkg/invitation"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/permission"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/svc/access"
)

// Audit actions.
const (
	ActionCreated    = "invitation.created"
	ActionAccepted   = "invitation.accepted"
	ActionRejected   = "invitation.rejected"
	ActionRevoked    = "invitation.revoked"
	ActionEmailError = "invitation.email_failed"
	resourceName     = "invitation"
	eventCreate      = "create"
)

// Auditor records state changes.
type Auditor interface {
	Log(ctx context.Context, action string, opts ...audit.EventOption) error
	LogError(ctx context.Context, action string, err error, opts ...audit.EventOption) error
}

// TransitionRecorder counts lifecycle events.
type TransitionRecorder interface {
	RecordInvitation(event, result string)
}

// Service manages invitations.
type Service struct {
	store       store.Store
	guard       *access.Guard
	machine     *invitation.Machine
	sender      email.Sender
	auditor     Auditor
	recorder    TransitionRecorder
	logger      *slog.Logger
	validate    *validator.Validate
	now         func() time.Time
	baseURL     string
	defaultDays int
}

// Option configures a Service.
type Option func(*Service)

func WithSender(s email.Sender) Option {
	return func(svc *Service) { svc.sender = s }
}

func WithAuditor(a Auditor) Option {
	return func(svc *Service) { svc.auditor = a }
}

func WithTransitionRecorder(r TransitionRecorder) Option {
	return func(svc *Service) { svc.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.now = now
		}
	}
}

// WithBaseURL sets the prefix of acceptance URLs.
func WithBaseURL(u string) Option {
	return func(svc *Service) { svc.baseURL = strings.TrimRight(u, "/") }
}

// WithDefaultExpiryDays sets the expiry used when a caller passes zero.
func WithDefaultExpiryDays(days int) Option {
	return func(svc *Service) {
		if days >= MinExpiryDays && days <= MaxExpiryDays {
			svc.defaultDays = days
		}
	}
}

// NewService creates an invitation service.
func NewService(s store.Store, guard *access.Guard, opts ...Option) *Service {
	svc := &Service{
		store:       s,
		guard:       guard,
		machine:     invitation.NewMachine(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate:    validator.New(),
		now:         time.Now,
		baseURL:     "http://localhost:8080",
		defaultDays: DefaultExpiryDays,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// AcceptURL builds the link embedded in invitation emails.
func (s *Service) AcceptURL(token string) string {
	return s.baseURL + "/invitations/" + url.PathEscape(token)
}

// Create issues an invitation. The caller must be an owner or hold
// member:invite in the organization.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Created, error) {
	now := s.now().UTC()

	var (
		inv   store.Invitation
		org   *store.Organization
		role  *store.Role
		token string
	)

	err := s.store.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		if err := s.guard.WithReader(q).AssertPermissions(ctx, p.OrgID, p.ActorID, permission.MemberInvite); err != nil {
			return err
		}

		addr, days, err := s.validateCreate(p)
		if err != nil {
			return err
		}

		// Serializes concurrent creators for the same organization.
		if err := q.LockOrganization(ctx, p.OrgID); err != nil {
			return fmt.Errorf("lock organization: %w", err)
		}
		if org, err = q.GetOrganization(ctx, p.OrgID); err != nil {
			return fmt.Errorf("load organization: %w", err)
		}

		if p.RoleID.Valid {
			role, err = q.GetRole(ctx, p.RoleID.UUID)
			if errors.Is(err, store.ErrNotFound) || (err == nil && role.OrgID != p.OrgID) {
				return ErrInvalidRole
			}
			if err != nil {
				return fmt.Errorf("load role: %w", err)
			}
			// Owner status moves only through ownership transfer.
			if role.Key == store.OwnerRoleKey {
				return ErrInvalidRole
			}
		}

		open, err := q.FindOpenInvitation(ctx, p.OrgID, addr)
		switch {
		case err == nil && !open.Expired(now):
			return ErrPendingExists
		case err == nil:
			// A stale, expired row would otherwise block the new invitation.
			if err := q.DeleteInvitation(ctx, open.ID); err != nil {
				return fmt.Errorf("delete expired invitation: %w", err)
			}
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("find open invitation: %w", err)
		}

		if token, err = invitation.NewToken(); err != nil {
			return err
		}
		hash, err := invitation.HashToken(token)
		if err != nil {
			return err
		}

		inv = store.Invitation{
			OrgID:     p.OrgID,
			Email:     addr,
			RoleID:    p.RoleID,
			InvitedBy: p.ActorID,
			TokenHash: hash,
			ExpiresAt: now.AddDate(0, 0, days),
			CreatedAt: now,
		}
		err = q.CreateInvitation(ctx, &inv)
		if errors.Is(err, store.ErrDuplicate) {
			return ErrPendingExists
		}
		if errors.Is(err, store.ErrReference) {
			return ErrInvalidRole
		}
		if err != nil {
			return fmt.Errorf("create invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		s.record(eventCreate, err)
		return nil, err
	}
	s.record(eventCreate, nil)

	res := &Created{
		Summary:   summarize(&inv, org, role, now),
		Token:     token,
		AcceptURL: s.AcceptURL(token),
	}

	s.audit(ctx, ActionCreated, p.OrgID, p.ActorID, inv.ID, audit.WithMetadata("email", inv.Email))
	res.EmailSent = s.sendEmail(ctx, &inv, org, res.AcceptURL)

	s.logger.InfoContext(ctx, "invitation created",
		logger.InvitationID(inv.ID),
		logger.OrgID(p.OrgID),
		logger.UserID(p.ActorID),
	)
	return res, nil
}

// GetByToken returns the invitation a token refers to. It requires no
// authentication; the token is the credential.
func (s *Service) GetByToken(ctx context.Context, token string) (*Summary, error) {
	hash, err := invitation.HashToken(token)
	if err != nil {
		return nil, ErrNotFound
	}

	inv, err := s.store.GetInvitationByTokenHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load invitation: %w", err)
	}

	org, err := s.store.GetOrganization(ctx, inv.OrgID)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	var role *store.Role
	if inv.RoleID.Valid {
		if role, err = s.store.GetRole(ctx, inv.RoleID.UUID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load role: %w", err)
		}
	}

	sum := summarize(inv, org, role, s.now().UTC())
	return &sum, nil
}

// Accept redeems a token for userID.
func (s *Service) Accept(ctx context.Context, token string, userID uuid.UUID) (*Accepted, error) {
	res := &Accepted{}
	var inv *store.Invitation

	err := s.store.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		var err error
		if inv, err = s.lockByToken(ctx, q, token); err != nil {
			return err
		}
		now := s.now().UTC()
		res.OrganizationID = inv.OrgID

		_, err = s.machine.Fire(ctx, invitation.StateAt(inv.AcceptedAt, inv.ExpiresAt, now), invitation.EventAccept,
			func(ctx context.Context, _, _ invitation.State, _ invitation.Event) error {
				// Existing members keep their owner flag.
				created, err := q.AddMember(ctx, store.Member{OrgID: inv.OrgID, UserID: userID, CreatedAt: now})
				if err != nil {
					return fmt.Errorf("add member: %w", err)
				}
				res.NewMember = created
				return nil
			},
			func(ctx context.Context, _, _ invitation.State, _ invitation.Event) error {
				if !inv.RoleID.Valid {
					return nil
				}
				if err := q.AssignRole(ctx, inv.OrgID, userID, inv.RoleID.UUID); err != nil {
					return fmt.Errorf("assign role: %w", err)
				}
				res.RoleID = inv.RoleID
				return nil
			},
			func(ctx context.Context, _, _ invitation.State, _ invitation.Event) error {
				if err := q.MarkInvitationAccepted(ctx, inv.ID, now); err != nil {
					return fmt.Errorf("mark accepted: %w", err)
				}
				return nil
			},
			func(ctx context.Context, _, _ invitation.State, _ invitation.Event) error {
				orgID := uuid.NullUUID{UUID: inv.OrgID, Valid: true}
				if err := q.SetActiveOrganization(ctx, userID, orgID); err != nil {
					return fmt.Errorf("set active organization: %w", err)
				}
				return nil
			},
		)
		return err
	})
	s.record(string(invitation.EventAccept), err)
	if err != nil {
		return nil, err
	}

	rbac.Forget(ctx, res.OrganizationID, userID)
	s.audit(ctx, ActionAccepted, inv.OrgID, userID, inv.ID, audit.WithMetadata("new_member", res.NewMember))
	return res, nil
}

// Reject declines an invitation and deletes it. Only accepted invitations
// cannot be rejected; an expired one is simply cleaned up.
func (s *Service) Reject(ctx context.Context, token string) error {
	var inv *store.Invitation
	err := s.store.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		var err error
		if inv, err = s.lockByToken(ctx, q, token); err != nil {
			return err
		}
		return s.fireDelete(ctx, q, inv, invitation.EventReject)
	})
	s.record(string(invitation.EventReject), err)
	if err != nil {
		return err
	}
	s.audit(ctx, ActionRejected, inv.OrgID, uuid.Nil, inv.ID)
	return nil
}

// Revoke withdraws an invitation on behalf of an organization member with
// member:invite.
func (s *Service) Revoke(ctx context.Context, orgID, actorID, invitationID uuid.UUID) error {
	err := s.store.InTx(ctx, func(ctx context.Context, q store.Querier) error {
		if err := s.guard.WithReader(q).AssertPermissions(ctx, orgID, actorID, permission.MemberInvite); err != nil {
			return err
		}
		inv, err := q.LockInvitation(ctx, invitationID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && inv.OrgID != orgID) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock invitation: %w", err)
		}
		return s.fireDelete(ctx, q, inv, invitation.EventRevoke)
	})
	s.record(string(invitation.EventRevoke), err)
	if err != nil {
		return err
	}
	s.audit(ctx, ActionRevoked, orgID, actorID, invitationID)
	return nil
}

// List returns the organization's unaccepted invitations, newest first.
func (s *Service) List(ctx context.Context, orgID, actorID uuid.UUID) ([]Summary, error) {
	if err := s.guard.AssertPermissions(ctx, orgID, actorID, permission.MemberInvite); err != nil {
		return nil, err
	}

	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	rows, err := s.store.ListInvitations(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	roles, err := s.store.ListRoles(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	byID := make(map[uuid.UUID]*store.Role, len(roles))
	for i := range roles {
		byID[roles[i].ID] = &roles[i]
	}

	now := s.now().UTC()
	out := make([]Summary, 0, len(rows))
	for i := range rows {
		if rows[i].Accepted() {
			continue
		}
		var role *store.Role
		if rows[i].RoleID.Valid {
			role = byID[rows[i].RoleID.UUID]
		}
		out = append(out, summarize(&rows[i], org, role, now))
	}
	return out, nil
}

func (s *Service) validateCreate(p CreateParams) (string, int, error) {
	addr := strings.ToLower(strings.TrimSpace(p.Email))
	if err := s.validate.Var(addr, "required,email,max=254"); err != nil {
		return "", 0, ErrInvalidEmail
	}
	days := p.ExpiresInDays
	if days == 0 {
		days = s.defaultDays
	}
	if days < MinExpiryDays || days > MaxExpiryDays {
		return "", 0, ErrInvalidExpiry
	}
	return addr, days, nil
}

func (s *Service) lockByToken(ctx context.Context, q store.Querier, token string) (*store.Invitation, error) {
	hash, err := invitation.HashToken(token)
	if err != nil {
		return nil, ErrNotFound
	}
	inv, err := q.GetInvitationByTokenHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load invitation: %w", err)
	}
	// Re-read under lock so concurrent redeemers see each other's writes.
	inv, err = q.LockInvitation(ctx, inv.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock invitation: %w", err)
	}
	return inv, nil
}

func (s *Service) fireDelete(ctx context.Context, q store.Querier, inv *store.Invitation, event invitation.Event) error {
	from := invitation.StateAt(inv.AcceptedAt, inv.ExpiresAt, s.now().UTC())
	_, err := s.machine.Fire(ctx, from, event,
		func(ctx context.Context, _, _ invitation.State, _ invitation.Event) error {
			if err := q.DeleteInvitation(ctx, inv.ID); err != nil {
				return fmt.Errorf("delete invitation: %w", err)
			}
			return nil
		},
	)
	return err
}

func (s *Service) sendEmail(ctx context.Context, inv *store.Invitation, org *store.Organization, acceptURL string) bool {
	if s.sender == nil {
		return false
	}

	data := email.InvitationData{
		To:               inv.Email,
		OrganizationName: org.Name,
		AcceptURL:        acceptURL,
		ExpiresAt:        inv.ExpiresAt,
	}
	if inviter, err := s.store.GetUser(ctx, inv.InvitedBy); err == nil {
		data.InviterEmail = inviter.Email
	}

	msg, err := email.InvitationMessage(data)
	if err == nil {
		err = s.sender.Send(ctx, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send invitation email",
			logger.InvitationID(inv.ID),
			logger.OrgID(inv.OrgID),
			logger.Error(err),
		)
		if s.auditor != nil {
			_ = s.auditor.LogError(ctx, ActionEmailError, err,
				audit.WithOrgID(inv.OrgID),
				audit.WithActorID(inv.InvitedBy),
				audit.WithResource(resourceName, inv.ID.String()),
			)
		}
		return false
	}
	return true
}

func (s *Service) audit(ctx context.Context, action string, orgID, actorID, invitationID uuid.UUID, opts ...audit.EventOption) {
	if s.auditor == nil {
		return
	}
	opts = append(opts, audit.WithOrgID(orgID), audit.WithResource(resourceName, invitationID.String()))
	if actorID != uuid.Nil {
		opts = append(opts, audit.WithActorID(actorID))
	}
	if err := s.auditor.Log(ctx, action, opts...); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event",
			logger.Event(action),
			logger.InvitationID(invitationID),
			logger.Error(err),
		)
	}
}

func (s *Service) record(event string, err error) {
	if s.recorder == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(apperr.CodeOf(err))
		if result == "" {
			result = "error"
		}
	}
	s.recorder.RecordInvitation(event, result)
}
