package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	domainerrors "placerly/contexts/estate-transition/executor-delegation/domain/errors"
	"placerly/contexts/estate-transition/executor-delegation/ports"
)

// Service orchestrates the executor delegation lifecycle: invite creation,
// the invite-action callback, and owner-scoped record management.
type Service struct {
	Repo          ports.Repository
	Codec         ports.TokenCodec
	Identity      ports.IdentityDirectory
	Notifications ports.NotificationGateway
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger

	// InviteTTL bounds the invite token lifetime. Defaults to 7 days.
	InviteTTL time.Duration
	// InviteBaseURL is the frontend origin used to build invite links.
	InviteBaseURL string
}

type CreateExecutorInput struct {
	Name          string
	Email         string
	ContactNumber string
}

type CreateExecutorResult struct {
	Record ports.DelegationRecord
	// EmailSent reports whether the invite notification was dispatched.
	// A failed send never rolls back record creation.
	EmailSent bool
}

type InviteActionResult struct {
	Action        string
	Record        ports.DelegationRecord
	PrincipalName string
	// Provisioned is true when accepting created a new executor account.
	Provisioned bool
}

func (s Service) CreateExecutor(ctx context.Context, ownerID string, input CreateExecutorInput) (CreateExecutorResult, error) {
	logger := resolveLogger(s.Logger)
	if strings.TrimSpace(ownerID) == "" {
		return CreateExecutorResult{}, domainerrors.ErrInvalidRequest
	}

	name := strings.TrimSpace(input.Name)
	if len(name) < 3 || len(name) > 100 {
		return CreateExecutorResult{}, domainerrors.ErrInvalidRequest
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return CreateExecutorResult{}, err
	}

	owner, err := s.Identity.FindByID(ctx, ownerID)
	if err != nil {
		return CreateExecutorResult{}, err
	}

	delegationID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateExecutorResult{}, err
	}
	now := s.now()
	record := ports.DelegationRecord{
		DelegationID:  delegationID,
		OwnerID:       ownerID,
		Name:          name,
		Email:         email,
		ContactNumber: strings.TrimSpace(input.ContactNumber),
		Status:        ports.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return CreateExecutorResult{}, err
	}

	token, err := s.Codec.Issue(ports.InvitePayload{
		DelegationID:  delegationID,
		OwnerID:       ownerID,
		ExecutorEmail: email,
	}, s.inviteTTL())
	if err != nil {
		return CreateExecutorResult{}, err
	}
	if err := s.Repo.AttachToken(ctx, delegationID, token, s.now()); err != nil {
		return CreateExecutorResult{}, err
	}
	record.InviteToken = &token

	emailSent := true
	if err := s.Notifications.Send(ctx, inviteMessage(record, owner, s.inviteLink(token))); err != nil {
		emailSent = false
		logger.Error("executor invite email failed",
			"event", "delegation_invite_email_failed",
			"module", "estate-transition/executor-delegation",
			"layer", "application",
			"delegation_id", delegationID,
			"error", err.Error(),
		)
	}

	logger.Info("executor invite created",
		"event", "delegation_invite_created",
		"module", "estate-transition/executor-delegation",
		"layer", "application",
		"delegation_id", delegationID,
		"owner_id", ownerID,
		"email_sent", emailSent,
	)
	return CreateExecutorResult{Record: record, EmailSent: emailSent}, nil
}

// HandleInviteAction resolves a token callback from the invited executor.
// The state transition commits before any notification is dispatched, so a
// crash after the transition leaves the record correctly terminal.
func (s Service) HandleInviteAction(ctx context.Context, action string, token string) (InviteActionResult, error) {
	logger := resolveLogger(s.Logger)

	switch action {
	case ports.ActionValidate, ports.ActionAccept, ports.ActionReject:
	default:
		return InviteActionResult{}, domainerrors.ErrInvalidAction
	}

	payload, err := s.Codec.Verify(token)
	if err != nil {
		return InviteActionResult{}, err
	}
	record, err := s.Repo.FindByID(ctx, payload.DelegationID)
	if err != nil {
		return InviteActionResult{}, err
	}

	switch action {
	case ports.ActionValidate:
		result := InviteActionResult{Action: action, Record: record}
		if owner, err := s.Identity.FindByID(ctx, record.OwnerID); err == nil {
			result.PrincipalName = owner.Name
		}
		return result, nil

	case ports.ActionAccept:
		return s.acceptInvite(ctx, record, logger)

	default:
		if record.Status != ports.StatusPending {
			return InviteActionResult{}, domainerrors.ErrInvalidState
		}
		updated, err := s.Repo.TransitionToRevoked(ctx, record.DelegationID, s.now())
		if err != nil {
			return InviteActionResult{}, err
		}
		logger.Info("executor invite rejected",
			"event", "delegation_invite_rejected",
			"module", "estate-transition/executor-delegation",
			"layer", "application",
			"delegation_id", record.DelegationID,
		)
		return InviteActionResult{Action: action, Record: updated}, nil
	}
}

func (s Service) acceptInvite(ctx context.Context, record ports.DelegationRecord, logger *slog.Logger) (InviteActionResult, error) {
	if record.Status != ports.StatusPending {
		return InviteActionResult{}, domainerrors.ErrInvalidState
	}

	account, found, err := s.Identity.FindByEmail(ctx, record.Email)
	if err != nil {
		return InviteActionResult{}, err
	}
	provisioned := false
	var credential string
	if !found {
		// Carried over from the legacy system: a predictable default
		// credential, emailed to the executor after provisioning.
		credential = record.Name + "@123"
		account, err = s.Identity.Create(ctx, ports.NewAccountInput{
			Name:     record.Name,
			Email:    record.Email,
			Phone:    record.ContactNumber,
			Password: credential,
			Role:     ports.RoleExecutor,
		})
		if err != nil {
			return InviteActionResult{}, err
		}
		provisioned = true
	}

	updated, err := s.Repo.TransitionToApproved(ctx, record.DelegationID, account.UserID, s.now())
	if err != nil {
		return InviteActionResult{}, err
	}

	// Back-reference maintenance, not ownership: a failure here leaves the
	// approved record authoritative, so log and continue.
	if err := s.Identity.AppendDelegation(ctx, record.OwnerID, record.DelegationID); err != nil {
		logger.Error("principal back-reference update failed",
			"event", "delegation_backref_update_failed",
			"module", "estate-transition/executor-delegation",
			"layer", "application",
			"delegation_id", record.DelegationID,
			"owner_id", record.OwnerID,
			"error", err.Error(),
		)
	}

	if err := s.Notifications.Send(ctx, acceptedMessage(updated)); err != nil {
		logger.Error("executor acceptance email failed",
			"event", "delegation_accept_email_failed",
			"module", "estate-transition/executor-delegation",
			"layer", "application",
			"delegation_id", record.DelegationID,
			"error", err.Error(),
		)
	}
	if provisioned {
		if err := s.Notifications.Send(ctx, credentialsMessage(updated, credential)); err != nil {
			logger.Error("executor credentials email failed",
				"event", "delegation_credentials_email_failed",
				"module", "estate-transition/executor-delegation",
				"layer", "application",
				"delegation_id", record.DelegationID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("executor invite accepted",
		"event", "delegation_invite_accepted",
		"module", "estate-transition/executor-delegation",
		"layer", "application",
		"delegation_id", record.DelegationID,
		"executor_user_id", account.UserID,
		"provisioned", provisioned,
	)
	return InviteActionResult{Action: ports.ActionAccept, Record: updated, Provisioned: provisioned}, nil
}

func (s Service) ListExecutors(ctx context.Context, ownerID string, filter ports.DelegationFilter) ([]ports.DelegationRecord, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if filter.Status != "" && !ports.IsValidStatus(filter.Status) {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.FindByOwner(ctx, ownerID, filter)
}

func (s Service) GetExecutor(ctx context.Context, ownerID string, delegationID string) (ports.DelegationRecord, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(delegationID) == "" {
		return ports.DelegationRecord{}, domainerrors.ErrInvalidRequest
	}
	record, err := s.Repo.FindByID(ctx, delegationID)
	if err != nil {
		return ports.DelegationRecord{}, err
	}
	if record.OwnerID != ownerID {
		return ports.DelegationRecord{}, domainerrors.ErrExecutorNotFound
	}
	return record, nil
}

func (s Service) UpdateExecutor(ctx context.Context, ownerID string, delegationID string, patch ports.UpdatePatch) (ports.DelegationRecord, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(delegationID) == "" {
		return ports.DelegationRecord{}, domainerrors.ErrInvalidRequest
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if len(trimmed) < 3 || len(trimmed) > 100 {
			return ports.DelegationRecord{}, domainerrors.ErrInvalidRequest
		}
		patch.Name = &trimmed
	}
	if patch.Email != nil {
		normalized, err := normalizeEmail(*patch.Email)
		if err != nil {
			return ports.DelegationRecord{}, err
		}
		patch.Email = &normalized
	}
	return s.Repo.UpdateFields(ctx, delegationID, ownerID, patch, s.now())
}

func (s Service) DeleteExecutor(ctx context.Context, ownerID string, delegationID string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(delegationID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.Repo.Delete(ctx, delegationID, ownerID)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) inviteTTL() time.Duration {
	if s.InviteTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.InviteTTL
}

func (s Service) inviteLink(token string) string {
	base := strings.TrimSuffix(s.InviteBaseURL, "/")
	return base + "/executor/invite/" + token
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", domainerrors.ErrInvalidRequest
	}
	normalized := strings.ToLower(strings.TrimSpace(addr.Address))
	if normalized == "" {
		return "", domainerrors.ErrInvalidRequest
	}
	return normalized, nil
}

func inviteMessage(record ports.DelegationRecord, owner ports.Account, link string) ports.Message {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333">
  <h2>Hello %s,</h2>
  <p>%s has added you as their <strong>Executor</strong> on <b>Placerly</b>.</p>
  <p>To accept the invitation and gain access, please click the link below:</p>
  <p><a href="%s">Accept Invitation</a></p>
  <p>This link will expire in 7 days.</p>
  <p>Thank you,<br/><strong>Placerly Team</strong></p>
</div>`, record.Name, owner.Name, link)
	return ports.Message{
		To:       record.Email,
		Subject:  "Executor Invitation - Placerly",
		HTMLBody: body,
	}
}

func acceptedMessage(record ports.DelegationRecord) ports.Message {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333">
  <h2>Hello %s,</h2>
  <p>Your executor invitation on <b>Placerly</b> has been accepted.</p>
  <p>You now have delegated access to the inviting user's records.</p>
  <p>Thank you,<br/><strong>Placerly Team</strong></p>
</div>`, record.Name)
	return ports.Message{
		To:       record.Email,
		Subject:  "Executor Invitation Accepted - Placerly",
		HTMLBody: body,
	}
}

func credentialsMessage(record ports.DelegationRecord, credential string) ports.Message {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; color: #333">
  <h2>Hello %s,</h2>
  <p>An executor account was created for you on <b>Placerly</b>.</p>
  <p>Email: %s<br/>Password: %s</p>
  <p>Please sign in and change your password.</p>
  <p>Thank you,<br/><strong>Placerly Team</strong></p>
</div>`, record.Name, record.Email, credential)
	return ports.Message{
		To:       record.Email,
		Subject:  "Your Executor Account - Placerly",
		HTMLBody: body,
	}
}
