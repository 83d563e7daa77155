package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateExecutorRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number,omitempty"`
}

type ExecutorData struct {
	ExecutorID    string `json:"executor_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type CreateExecutorResponse struct {
	Status string `json:"status"`
	Data   struct {
		ExecutorData
		EmailSent bool `json:"email_sent"`
	} `json:"data"`
}

type InviteActionRequest struct {
	Action string `json:"action"`
	Token  string `json:"token"`
}

type InviteActionResponse struct {
	Status string `json:"status"`
	Data   struct {
		Action        string       `json:"action"`
		Executor      ExecutorData `json:"executor"`
		PrincipalName string       `json:"principal_name,omitempty"`
		Provisioned   bool         `json:"provisioned,omitempty"`
	} `json:"data"`
}

type ListExecutorsResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Data   struct {
		Items []ExecutorData `json:"items"`
	} `json:"data"`
}

type GetExecutorResponse struct {
	Status string       `json:"status"`
	Data   ExecutorData `json:"data"`
}

type UpdateExecutorRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
}

type UpdateExecutorResponse struct {
	Status string       `json:"status"`
	Data   ExecutorData `json:"data"`
}

type DeleteExecutorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
