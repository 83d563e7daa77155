package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"placerly/contexts/finance-records/record-vault/application"
	domainerrors "placerly/contexts/finance-records/record-vault/domain/errors"
	"placerly/contexts/finance-records/record-vault/ports"
	httptransport "placerly/contexts/finance-records/record-vault/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateRecordHandler(
	ctx context.Context,
	session ports.Session,
	recordType string,
	req httptransport.CreateRecordRequest,
) (httptransport.CreateRecordResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return httptransport.CreateRecordResponse{}, err
	}
	record, err := h.Service.CreateRecord(ctx, session, application.CreateRecordInput{
		RecordType:    strings.TrimSpace(recordType),
		Name:          strings.TrimSpace(req.Name),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Provider:      strings.TrimSpace(req.Provider),
		Amount:        amount,
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		return httptransport.CreateRecordResponse{}, err
	}
	return httptransport.CreateRecordResponse{Status: "success", Data: recordData(record)}, nil
}

func (h Handler) ListRecordsHandler(
	ctx context.Context,
	session ports.Session,
	recordType string,
	search string,
) (httptransport.ListRecordsResponse, error) {
	items, err := h.Service.ListRecords(ctx, session, ports.RecordFilter{
		RecordType: strings.TrimSpace(recordType),
		Search:     strings.TrimSpace(search),
	})
	if err != nil {
		return httptransport.ListRecordsResponse{}, err
	}
	resp := httptransport.ListRecordsResponse{Status: "success", Count: len(items)}
	resp.Data.Items = make([]httptransport.RecordData, 0, len(items))
	for _, item := range items {
		resp.Data.Items = append(resp.Data.Items, recordData(item))
	}
	return resp, nil
}

func (h Handler) GetRecordHandler(
	ctx context.Context,
	session ports.Session,
	recordID string,
) (httptransport.GetRecordResponse, error) {
	record, err := h.Service.GetRecord(ctx, session, recordID)
	if err != nil {
		return httptransport.GetRecordResponse{}, err
	}
	return httptransport.GetRecordResponse{Status: "success", Data: recordData(record)}, nil
}

func (h Handler) UpdateRecordHandler(
	ctx context.Context,
	session ports.Session,
	recordID string,
	req httptransport.UpdateRecordRequest,
) (httptransport.UpdateRecordResponse, error) {
	patch := ports.RecordPatch{
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		Provider:      req.Provider,
		Notes:         req.Notes,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return httptransport.UpdateRecordResponse{}, err
		}
		patch.Amount = &amount
	}
	record, err := h.Service.UpdateRecord(ctx, session, recordID, patch)
	if err != nil {
		return httptransport.UpdateRecordResponse{}, err
	}
	return httptransport.UpdateRecordResponse{Status: "success", Data: recordData(record)}, nil
}

func (h Handler) DeleteRecordHandler(
	ctx context.Context,
	session ports.Session,
	recordID string,
) (httptransport.DeleteRecordResponse, error) {
	if err := h.Service.DeleteRecord(ctx, session, recordID); err != nil {
		return httptransport.DeleteRecordResponse{}, err
	}
	return httptransport.DeleteRecordResponse{
		Status:  "success",
		Message: "record deleted successfully",
	}, nil
}

func (h Handler) DashboardHandler(
	ctx context.Context,
	session ports.Session,
) (httptransport.DashboardResponse, error) {
	summary, err := h.Service.GetDashboard(ctx, session)
	if err != nil {
		return httptransport.DashboardResponse{}, err
	}

	resp := httptransport.DashboardResponse{Status: "success"}
	for _, row := range summary.Types {
		resp.Data.Types = append(resp.Data.Types, struct {
			RecordType string `json:"record_type"`
			Count      int    `json:"count"`
			Total      string `json:"total"`
		}{
			RecordType: row.RecordType,
			Count:      row.Count,
			Total:      row.Total.StringFixed(2),
		})
	}
	resp.Data.NetTotal = summary.NetTotal.StringFixed(2)
	resp.Data.GeneratedAt = summary.Generated.UTC().Format(time.RFC3339)
	return resp, nil
}

func recordData(record ports.FinancialRecord) httptransport.RecordData {
	return httptransport.RecordData{
		RecordID:      record.RecordID,
		RecordType:    record.RecordType,
		Name:          record.Name,
		AccountNumber: record.AccountNumber,
		Provider:      record.Provider,
		Amount:        record.Amount.StringFixed(2),
		Notes:         record.Notes,
		CreatedAt:     record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, domainerrors.ErrInvalidAmount
	}
	return amount, nil
}
