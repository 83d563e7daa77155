package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateRecordRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number,omitempty"`
	Provider      string `json:"provider,omitempty"`
	Amount        string `json:"amount"`
	Notes         string `json:"notes,omitempty"`
}

type RecordData struct {
	RecordID      string `json:"record_id"`
	RecordType    string `json:"record_type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number,omitempty"`
	Provider      string `json:"provider,omitempty"`
	Amount        string `json:"amount"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type CreateRecordResponse struct {
	Status string     `json:"status"`
	Data   RecordData `json:"data"`
}

type ListRecordsResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Data   struct {
		Items []RecordData `json:"items"`
	} `json:"data"`
}

type GetRecordResponse struct {
	Status string     `json:"status"`
	Data   RecordData `json:"data"`
}

type UpdateRecordRequest struct {
	Name          *string `json:"name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	Provider      *string `json:"provider,omitempty"`
	Amount        *string `json:"amount,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type UpdateRecordResponse struct {
	Status string     `json:"status"`
	Data   RecordData `json:"data"`
}

type DeleteRecordResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DashboardResponse struct {
	Status string `json:"status"`
	Data   struct {
		Types []struct {
			RecordType string `json:"record_type"`
			Count      int    `json:"count"`
			Total      string `json:"total"`
		} `json:"types"`
		NetTotal    string `json:"net_total"`
		GeneratedAt string `json:"generated_at"`
	} `json:"data"`
}
