package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreateNegotiationRequest represents a request to open a negotiation
type CreateNegotiationRequest struct {
	PropertyID    *uuid.UUID        `json:"propertyId" validate:"omitempty"`
	ClientID      *uuid.UUID        `json:"clientId" validate:"omitempty"`
	RealtorID     string            `json:"realtorId" validate:"omitempty,max=100"`
	Type          NegotiationType   `json:"type" validate:"required,oneof=sale rental auction"`
	Value         float64           `json:"value" validate:"required,gt=0"`
	IsFinanced    bool              `json:"isFinanced"`
	Observations  string            `json:"observations" validate:"omitempty,max=5000"`
	Documents     []DocumentRequest `json:"documents" validate:"omitempty,dive"`
}

// DocumentRequest is one attachment reference supplied at creation
type DocumentRequest struct {
	URL  string `json:"url" validate:"required,max=500"`
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateNegotiationRequest represents a partial negotiation update
type UpdateNegotiationRequest struct {
	Value        *float64 `json:"value" validate:"omitempty,gt=0"`
	IsFinanced   *bool    `json:"isFinanced"`
	Observations *string  `json:"observations" validate:"omitempty,max=5000"`
}

// MoveStageRequest represents a board drag between lifecycle stages
type MoveStageRequest struct {
	Stage NegotiationStage `json:"stage" validate:"required"`
}

// MoveContractStatusRequest represents a board drag between contract columns
type MoveContractStatusRequest struct {
	ContractStatus ContractStatus `json:"contractStatus" validate:"required"`
}

// CompleteSaleRequest carries the optional settlement note
type CompleteSaleRequest struct {
	Note string `json:"note" validate:"omitempty,max=5000"`
}

// SettlementResult is the structured outcome of a settlement attempt
type SettlementResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NegotiationFilters are the admin-only list filters. Role and user
// scoping is applied by the service on top of these.
type NegotiationFilters struct {
	Stage          *NegotiationStage
	Type           *NegotiationType
	ContractStatus *ContractStatus
	ResponsibleID  *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Search         string
	Page           int
	PageSize       int
}

// NegotiationResponse is the API shape of a negotiation
type NegotiationResponse struct {
	ID              uuid.UUID          `json:"id"`
	Code            string             `json:"code"`
	PropertyID      *uuid.UUID         `json:"propertyId,omitempty"`
	ClientID        *uuid.UUID         `json:"clientId,omitempty"`
	PropertyName    string             `json:"propertyName"`
	PropertyCode    string             `json:"propertyCode"`
	ClientName      string             `json:"clientName"`
	SalespersonID   string             `json:"salespersonId"`
	SalespersonName string             `json:"salespersonName"`
	RealtorID       string             `json:"realtorId,omitempty"`
	RealtorName     string             `json:"realtorName,omitempty"`
	Stage           NegotiationStage   `json:"stage"`
	ContractStatus  ContractStatus     `json:"contractStatus"`
	Type            NegotiationType    `json:"type"`
	Value           float64            `json:"value"`
	IsFinanced      bool               `json:"isFinanced"`
	IsArchived      bool               `json:"isArchived"`
	IsDeleted       bool               `json:"isDeleted"`
	Status          ActivityStatus     `json:"status"`
	ProcessStatus   ProcessStatus      `json:"processStatus"`
	ProcessStage    ProcessStage       `json:"processStage"`
	CompletionDate  *time.Time         `json:"completionDate,omitempty"`
	Observations    string             `json:"observations,omitempty"`
	Documents       []DocumentResponse `json:"documents,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// DocumentResponse is the API shape of an attachment reference
type DocumentResponse struct {
	ID   uuid.UUID `json:"id"`
	URL  string    `json:"url"`
	Name string    `json:"name"`
}

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// ActivityCard is one kanban card projected from a capture or negotiation
type ActivityCard struct {
	ID          uuid.UUID      `json:"id"`
	Kind        ActivityKind   `json:"kind"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle,omitempty"`
	Value       float64        `json:"value"`
	Status      ActivityStatus `json:"status"`
	ReferenceID uuid.UUID      `json:"referenceId"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ActivityKind is the source record kind behind an activity card
type ActivityKind string

const (
	ActivityKindCapture     ActivityKind = "capture"
	ActivityKindNegotiation ActivityKind = "negotiation"
)

// IsValid checks if the ActivityKind is a valid enum value
func (k ActivityKind) IsValid() bool {
	return k == ActivityKindCapture || k == ActivityKindNegotiation
}

// Board groups a user's activity cards by status column
type Board struct {
	Columns map[ActivityStatus][]ActivityCard `json:"columns"`
}

// MoveActivityRequest moves one card to another column
type MoveActivityRequest struct {
	Kind   ActivityKind   `json:"kind" validate:"required,oneof=capture negotiation"`
	ID     uuid.UUID      `json:"id" validate:"required"`
	Status ActivityStatus `json:"status" validate:"required,oneof=active pending completed cancelled"`
}

// CreateServiceRequestRequest opens a service request
type CreateServiceRequestRequest struct {
	Type         ServiceRequestType `json:"type" validate:"required,oneof=financing legal other"`
	ClientInfo   string             `json:"clientInfo" validate:"required,max=500"`
	PropertyInfo string             `json:"propertyInfo" validate:"required,max=500"`
	Details      string             `json:"details" validate:"omitempty,max=5000"`
}

// UpdateFinancingRequest is a correspondent's partial update of a
// financing process. HasPendency is recomputed server-side and cannot
// be set directly.
type UpdateFinancingRequest struct {
	ClientStatus      *FinancingClientStatus `json:"clientStatus" validate:"omitempty,oneof=pending approved rejected"`
	BacenInfo         *string                `json:"bacenInfo" validate:"omitempty,max=500"`
	EngineeringStatus *EngineeringStatus     `json:"engineeringStatus" validate:"omitempty,oneof=not_requested requested approved rejected"`

	IdentityDoc             *bool      `json:"identityDoc"`
	IdentityDocDue          *time.Time `json:"identityDocDue"`
	IncomeProof             *bool      `json:"incomeProof"`
	IncomeProofDue          *time.Time `json:"incomeProofDue"`
	AddressProof            *bool      `json:"addressProof"`
	AddressProofDue         *time.Time `json:"addressProofDue"`
	PropertyRegistration    *bool      `json:"propertyRegistration"`
	PropertyRegistrationDue *time.Time `json:"propertyRegistrationDue"`
	SaleContract            *bool      `json:"saleContract"`
	SaleContractDue         *time.Time `json:"saleContractDue"`

	StageInterview     *bool `json:"stageInterview"`
	StageDocumentation *bool `json:"stageDocumentation"`
	StageBankAnalysis  *bool `json:"stageBankAnalysis"`
	StageEngineering   *bool `json:"stageEngineering"`
	StageSigning       *bool `json:"stageSigning"`

	Status *FinancingStatus `json:"status" validate:"omitempty,oneof=active suspended cancelled concluded"`
	Notes  *string          `json:"notes" validate:"omitempty,max=5000"`
}

// CreateProcessRequest opens an administrative process
type CreateProcessRequest struct {
	NegotiationID *uuid.UUID `json:"negotiationId"`
	Title         string     `json:"title" validate:"required,max=200"`
	Team          []string   `json:"team" validate:"omitempty,dive,max=100"`
	Observations  string     `json:"observations" validate:"omitempty,max=5000"`
}

// UpdateProcessRequest is a partial process update
type UpdateProcessRequest struct {
	Status       *ProcessStatus `json:"status" validate:"omitempty,oneof=active suspended cancelled finalized"`
	Stage        *ProcessStage  `json:"stage" validate:"omitempty,oneof=in_progress pendency finalized"`
	Team         []string       `json:"team" validate:"omitempty,dive,max=100"`
	Observations *string        `json:"observations" validate:"omitempty,max=5000"`
}

// CreateCaptureRequest opens a property-acquisition effort
type CreateCaptureRequest struct {
	PropertyName string  `json:"propertyName" validate:"required,max=200"`
	Value        float64 `json:"value" validate:"omitempty,gte=0"`
	Notes        string  `json:"notes" validate:"omitempty,max=5000"`
}

// CreatePropertyRequest adds a catalog entry
type CreatePropertyRequest struct {
	Code      string  `json:"code" validate:"required,max=50"`
	Name      string  `json:"name" validate:"required,max=200"`
	Address   string  `json:"address" validate:"omitempty,max=500"`
	City      string  `json:"city" validate:"omitempty,max=100"`
	Type      string  `json:"type" validate:"omitempty,max=50"`
	Value     float64 `json:"value" validate:"omitempty,gte=0"`
	OwnerInfo string  `json:"ownerInfo" validate:"omitempty,max=500"`
}

// CreateClientRequest adds a client
type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
	Document string `json:"document" validate:"omitempty,max=50"`
}

// CommissionResponse is the API shape of a commission
type CommissionResponse struct {
	ID              uuid.UUID        `json:"id"`
	NegotiationID   uuid.UUID        `json:"negotiationId"`
	NegotiationCode string           `json:"negotiationCode,omitempty"`
	Amount          float64          `json:"amount"`
	Status          CommissionStatus `json:"status"`
	PaymentDate     time.Time        `json:"paymentDate"`
	Involved        string           `json:"involved"`
	CreatedAt       time.Time        `json:"createdAt"`
}
