package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"placerly/contexts/estate-transition/executor-delegation/application"
	"placerly/contexts/estate-transition/executor-delegation/ports"
	httptransport "placerly/contexts/estate-transition/executor-delegation/transport/http"
)

type Handler struct {
	Service application.Service
	Scope   application.ScopeResolver
	Logger  *slog.Logger
}

func (h Handler) CreateExecutorHandler(
	ctx context.Context,
	ownerID string,
	req httptransport.CreateExecutorRequest,
) (httptransport.CreateExecutorResponse, error) {
	result, err := h.Service.CreateExecutor(ctx, ownerID, application.CreateExecutorInput{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
	})
	if err != nil {
		return httptransport.CreateExecutorResponse{}, err
	}

	resp := httptransport.CreateExecutorResponse{Status: "success"}
	resp.Data.ExecutorData = executorData(result.Record)
	resp.Data.EmailSent = result.EmailSent
	return resp, nil
}

func (h Handler) InviteActionHandler(
	ctx context.Context,
	req httptransport.InviteActionRequest,
) (httptransport.InviteActionResponse, error) {
	result, err := h.Service.HandleInviteAction(ctx, strings.TrimSpace(req.Action), strings.TrimSpace(req.Token))
	if err != nil {
		return httptransport.InviteActionResponse{}, err
	}

	resp := httptransport.InviteActionResponse{Status: "success"}
	resp.Data.Action = result.Action
	resp.Data.Executor = executorData(result.Record)
	resp.Data.PrincipalName = result.PrincipalName
	resp.Data.Provisioned = result.Provisioned
	return resp, nil
}

func (h Handler) ListExecutorsHandler(
	ctx context.Context,
	ownerID string,
	status string,
	search string,
) (httptransport.ListExecutorsResponse, error) {
	items, err := h.Service.ListExecutors(ctx, ownerID, ports.DelegationFilter{
		Status: strings.TrimSpace(status),
		Search: strings.TrimSpace(search),
	})
	if err != nil {
		return httptransport.ListExecutorsResponse{}, err
	}

	resp := httptransport.ListExecutorsResponse{Status: "success", Count: len(items)}
	resp.Data.Items = make([]httptransport.ExecutorData, 0, len(items))
	for _, item := range items {
		resp.Data.Items = append(resp.Data.Items, executorData(item))
	}
	return resp, nil
}

func (h Handler) GetExecutorHandler(
	ctx context.Context,
	ownerID string,
	executorID string,
) (httptransport.GetExecutorResponse, error) {
	record, err := h.Service.GetExecutor(ctx, ownerID, strings.TrimSpace(executorID))
	if err != nil {
		return httptransport.GetExecutorResponse{}, err
	}
	return httptransport.GetExecutorResponse{Status: "success", Data: executorData(record)}, nil
}

func (h Handler) UpdateExecutorHandler(
	ctx context.Context,
	ownerID string,
	executorID string,
	req httptransport.UpdateExecutorRequest,
) (httptransport.UpdateExecutorResponse, error) {
	record, err := h.Service.UpdateExecutor(ctx, ownerID, strings.TrimSpace(executorID), ports.UpdatePatch{
		Name:          req.Name,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		return httptransport.UpdateExecutorResponse{}, err
	}
	return httptransport.UpdateExecutorResponse{Status: "success", Data: executorData(record)}, nil
}

func (h Handler) DeleteExecutorHandler(
	ctx context.Context,
	ownerID string,
	executorID string,
) (httptransport.DeleteExecutorResponse, error) {
	if err := h.Service.DeleteExecutor(ctx, ownerID, strings.TrimSpace(executorID)); err != nil {
		return httptransport.DeleteExecutorResponse{}, err
	}
	return httptransport.DeleteExecutorResponse{
		Status:  "success",
		Message: "executor deleted successfully",
	}, nil
}

func (h Handler) ResolveScope(ctx context.Context, session ports.Session) (string, error) {
	return h.Scope.Resolve(ctx, session)
}

func executorData(record ports.DelegationRecord) httptransport.ExecutorData {
	return httptransport.ExecutorData{
		ExecutorID:    record.DelegationID,
		Name:          record.Name,
		Email:         record.Email,
		ContactNumber: record.ContactNumber,
		Status:        record.Status,
		CreatedAt:     record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
