package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the id application-side so every supported driver
// (postgres in production, sqlite in tests) behaves the same.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RoleAdmin         UserRoleType = "admin"
	RoleAgency        UserRoleType = "agency"
	RoleRealtor       UserRoleType = "realtor"
	RoleSalesperson   UserRoleType = "salesperson"
	RoleCorrespondent UserRoleType = "correspondent"
	RoleClient        UserRoleType = "client"
)

// IsAdministrative reports whether the role sees the full working list
// instead of only records the user participates in.
func (r UserRoleType) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleAgency
}

// IsValid checks if the UserRoleType is a valid enum value
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgency, RoleRealtor, RoleSalesperson, RoleCorrespondent, RoleClient:
		return true
	}
	return false
}

// User mirrors the identity claims the auth middleware needs for display
// and scoping. Authentication itself lives outside this service.
type User struct {
	ID        string         `gorm:"type:varchar(100);primaryKey"`
	Email     string         `gorm:"type:varchar(255);not null;unique"`
	Name      string         `gorm:"type:varchar(200);not null"`
	Roles     pq.StringArray `gorm:"type:text[];not null"`
	IsActive  bool           `gorm:"not null;default:true;column:is_active"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role UserRoleType) bool {
	for _, r := range u.Roles {
		if UserRoleType(r) == role {
			return true
		}
	}
	return false
}

// NegotiationStage represents the position of a negotiation in its lifecycle
type NegotiationStage string

const (
	StageProposalSent      NegotiationStage = "proposal_sent"
	StageInNegotiation     NegotiationStage = "in_negotiation"
	StageContractGenerated NegotiationStage = "contract_generated"
	StageSaleCompleted     NegotiationStage = "sale_completed"
	StageRentalActive      NegotiationStage = "rental_active"
)

// IsValid checks if the NegotiationStage is a valid enum value
func (s NegotiationStage) IsValid() bool {
	switch s {
	case StageProposalSent, StageInNegotiation, StageContractGenerated, StageSaleCompleted, StageRentalActive:
		return true
	}
	return false
}

// IsTerminal reports whether the stage marks a settled negotiation.
// Terminal stages are entered only through settlement and never left.
func (s NegotiationStage) IsTerminal() bool {
	return s == StageSaleCompleted || s == StageRentalActive
}

// ContractStatus represents the signature state of the contract
type ContractStatus string

const (
	ContractNotGenerated      ContractStatus = "not_generated"
	ContractPendingSignatures ContractStatus = "pending_signatures"
	ContractSigned            ContractStatus = "signed"
	ContractCancelled         ContractStatus = "cancelled"
)

// IsValid checks if the ContractStatus is a valid enum value
func (c ContractStatus) IsValid() bool {
	switch c {
	case ContractNotGenerated, ContractPendingSignatures, ContractSigned, ContractCancelled:
		return true
	}
	return false
}

// NegotiationType represents the kind of deal being negotiated
type NegotiationType string

const (
	TypeSale    NegotiationType = "sale"
	TypeRental  NegotiationType = "rental"
	TypeAuction NegotiationType = "auction"
)

// IsValid checks if the NegotiationType is a valid enum value
func (t NegotiationType) IsValid() bool {
	switch t {
	case TypeSale, TypeRental, TypeAuction:
		return true
	}
	return false
}

// ActivityStatus represents the kanban column of an activity card.
// It is persisted on the source record the card was projected from.
type ActivityStatus string

const (
	ActivityStatusActive    ActivityStatus = "active"
	ActivityStatusPending   ActivityStatus = "pending"
	ActivityStatusCompleted ActivityStatus = "completed"
	ActivityStatusCancelled ActivityStatus = "cancelled"
)

// IsValid checks if the ActivityStatus is a valid enum value
func (a ActivityStatus) IsValid() bool {
	switch a {
	case ActivityStatusActive, ActivityStatusPending, ActivityStatusCompleted, ActivityStatusCancelled:
		return true
	}
	return false
}

// ActivityStatuses lists the four board columns in render order.
var ActivityStatuses = []ActivityStatus{
	ActivityStatusActive,
	ActivityStatusPending,
	ActivityStatusCompleted,
	ActivityStatusCancelled,
}

// ProcessStatus represents the status of an administrative process
type ProcessStatus string

const (
	ProcessStatusActive    ProcessStatus = "active"
	ProcessStatusSuspended ProcessStatus = "suspended"
	ProcessStatusCancelled ProcessStatus = "cancelled"
	ProcessStatusFinalized ProcessStatus = "finalized"
)

// IsValid checks if the ProcessStatus is a valid enum value
func (p ProcessStatus) IsValid() bool {
	switch p {
	case ProcessStatusActive, ProcessStatusSuspended, ProcessStatusCancelled, ProcessStatusFinalized:
		return true
	}
	return false
}

// ProcessStage represents the progress of an administrative process
type ProcessStage string

const (
	ProcessStageInProgress ProcessStage = "in_progress"
	ProcessStagePendency   ProcessStage = "pendency"
	ProcessStageFinalized  ProcessStage = "finalized"
)

// IsValid checks if the ProcessStage is a valid enum value
func (p ProcessStage) IsValid() bool {
	switch p {
	case ProcessStageInProgress, ProcessStagePendency, ProcessStageFinalized:
		return true
	}
	return false
}

// Negotiation is the central entity: one deal between a client and a
// property.
//
// PropertyName, PropertyCode, ClientName, SalespersonName and RealtorName
// are snapshots taken at creation time. They are intentionally never
// synchronized with the source property and client records afterwards.
type Negotiation struct {
	BaseModel
	Code            string                `gorm:"type:varchar(50);unique;index"`
	PropertyID      *uuid.UUID            `gorm:"type:uuid;index;column:property_id"`
	Property        *Property             `gorm:"foreignKey:PropertyID"`
	ClientID        *uuid.UUID            `gorm:"type:uuid;index;column:client_id"`
	Client          *Client               `gorm:"foreignKey:ClientID"`
	SalespersonID   string                `gorm:"type:varchar(100);not null;index;column:salesperson_id"`
	RealtorID       string                `gorm:"type:varchar(100);index;column:realtor_id"`
	PropertyName    string                `gorm:"type:varchar(200);column:property_name"`
	PropertyCode    string                `gorm:"type:varchar(50);column:property_code"`
	ClientName      string                `gorm:"type:varchar(200);column:client_name"`
	SalespersonName string                `gorm:"type:varchar(200);column:salesperson_name"`
	RealtorName     string                `gorm:"type:varchar(200);column:realtor_name"`
	Stage           NegotiationStage      `gorm:"type:varchar(50);not null;default:'proposal_sent';index"`
	ContractStatus  ContractStatus        `gorm:"type:varchar(50);not null;default:'not_generated';column:contract_status"`
	Type            NegotiationType       `gorm:"type:varchar(50);not null;index"`
	Value           float64               `gorm:"type:decimal(15,2);not null"`
	IsFinanced      bool                  `gorm:"not null;default:false;column:is_financed"`
	IsArchived      bool                  `gorm:"not null;default:false;column:is_archived;index"`
	IsDeleted       bool                  `gorm:"not null;default:false;column:is_deleted;index"`
	Status          ActivityStatus        `gorm:"type:varchar(50);not null;default:'active'"`
	ProcessStatus   ProcessStatus         `gorm:"type:varchar(50);not null;default:'active';column:process_status"`
	ProcessStage    ProcessStage          `gorm:"type:varchar(50);not null;default:'in_progress';column:process_stage"`
	CompletionDate  *time.Time            `gorm:"column:completion_date"`
	Observations    string                `gorm:"type:text"`
	Documents       []NegotiationDocument `gorm:"foreignKey:NegotiationID;constraint:OnDelete:CASCADE"`
}

// IsCompleted reports whether the negotiation already settled.
func (n *Negotiation) IsCompleted() bool {
	return n.Stage.IsTerminal()
}

// NegotiationDocument is an attachment reference recorded at creation.
// The URL is opaque; the file itself lives in blob storage.
type NegotiationDocument struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	NegotiationID uuid.UUID `gorm:"type:uuid;not null;index;column:negotiation_id"`
	URL           string    `gorm:"type:varchar(500);not null"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Position      int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the id application-side.
func (d *NegotiationDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// PropertyStatus represents the availability of a property
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyReserved  PropertyStatus = "reserved"
	PropertySold      PropertyStatus = "sold"
	PropertyRented    PropertyStatus = "rented"
)

// IsValid checks if the PropertyStatus is a valid enum value
func (p PropertyStatus) IsValid() bool {
	switch p {
	case PropertyAvailable, PropertyReserved, PropertySold, PropertyRented:
		return true
	}
	return false
}

// Property represents a catalog entry
type Property struct {
	BaseModel
	Code      string         `gorm:"type:varchar(50);unique;index"`
	Name      string         `gorm:"type:varchar(200);not null;index"`
	Address   string         `gorm:"type:varchar(500)"`
	City      string         `gorm:"type:varchar(100)"`
	Type      string         `gorm:"type:varchar(50)"`
	Value     float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Status    PropertyStatus `gorm:"type:varchar(50);not null;default:'available';index"`
	CaptorID  string         `gorm:"type:varchar(100);index;column:captor_id"`
	OwnerInfo string         `gorm:"type:varchar(500);column:owner_info"`
}

// Client represents a buyer, tenant or bidder
type Client struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null;index"`
	Email    string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(50)"`
	Document string `gorm:"type:varchar(50)"`
	UserID   string `gorm:"type:varchar(100);index;column:user_id"`
}

// Capture represents a property-acquisition effort by a realtor.
// Together with negotiations it feeds the activity board.
type Capture struct {
	BaseModel
	PropertyName string         `gorm:"type:varchar(200);not null;column:property_name"`
	RealtorID    string         `gorm:"type:varchar(100);not null;index;column:realtor_id"`
	Value        float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Status       ActivityStatus `gorm:"type:varchar(50);not null;default:'active'"`
	Notes        string         `gorm:"type:text"`
}

// CommissionStatus represents the payment state of a commission
type CommissionStatus string

const (
	CommissionPending CommissionStatus = "pending"
	CommissionPaid    CommissionStatus = "paid"
	CommissionOverdue CommissionStatus = "overdue"
)

// IsValid checks if the CommissionStatus is a valid enum value
func (c CommissionStatus) IsValid() bool {
	switch c {
	case CommissionPending, CommissionPaid, CommissionOverdue:
		return true
	}
	return false
}

// Commission is created only by settlement. Payment-state transitions are
// driven by the ledger reconciliation job, not by this engine.
type Commission struct {
	BaseModel
	NegotiationID uuid.UUID        `gorm:"type:uuid;not null;index;column:negotiation_id"`
	Negotiation   *Negotiation     `gorm:"foreignKey:NegotiationID"`
	Amount        float64          `gorm:"type:decimal(15,2);not null"`
	Status        CommissionStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	PaymentDate   time.Time        `gorm:"not null;column:payment_date"`
	Involved      string           `gorm:"type:varchar(500)"`
	LedgerRef     string           `gorm:"type:varchar(100);column:ledger_ref"`
}

// ServiceRequestType classifies what a salesperson is asking for
type ServiceRequestType string

const (
	RequestFinancing ServiceRequestType = "financing"
	RequestLegal     ServiceRequestType = "legal"
	RequestOther     ServiceRequestType = "other"
)

// IsValid checks if the ServiceRequestType is a valid enum value
func (t ServiceRequestType) IsValid() bool {
	switch t {
	case RequestFinancing, RequestLegal, RequestOther:
		return true
	}
	return false
}

// ServiceRequestStatus represents the routing state of a service request
type ServiceRequestStatus string

const (
	RequestPending   ServiceRequestStatus = "pending"
	RequestInReview  ServiceRequestStatus = "in_review"
	RequestCompleted ServiceRequestStatus = "completed"
)

// ServiceRequest is a free-text request raised by a salesperson.
// ClientInfo and PropertyInfo are typed-in snapshots, not references.
type ServiceRequest struct {
	BaseModel
	Type         ServiceRequestType   `gorm:"type:varchar(50);not null;index"`
	ClientInfo   string               `gorm:"type:varchar(500);not null;column:client_info"`
	PropertyInfo string               `gorm:"type:varchar(500);not null;column:property_info"`
	Details      string               `gorm:"type:text"`
	Status       ServiceRequestStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	RequesterID  string               `gorm:"type:varchar(100);not null;column:requester_id"`
}

// FinancingClientStatus represents the bank's approval of the client
type FinancingClientStatus string

const (
	FinancingClientPending  FinancingClientStatus = "pending"
	FinancingClientApproved FinancingClientStatus = "approved"
	FinancingClientRejected FinancingClientStatus = "rejected"
)

// EngineeringStatus represents the bank's engineering appraisal
type EngineeringStatus string

const (
	EngineeringNotRequested EngineeringStatus = "not_requested"
	EngineeringRequested    EngineeringStatus = "requested"
	EngineeringApproved     EngineeringStatus = "approved"
	EngineeringRejected     EngineeringStatus = "rejected"
)

// FinancingStatus represents the lifecycle of a financing process
type FinancingStatus string

const (
	FinancingActive    FinancingStatus = "active"
	FinancingSuspended FinancingStatus = "suspended"
	FinancingCancelled FinancingStatus = "cancelled"
	FinancingConcluded FinancingStatus = "concluded"
)

// IsValid checks if the FinancingStatus is a valid enum value
func (f FinancingStatus) IsValid() bool {
	switch f {
	case FinancingActive, FinancingSuspended, FinancingCancelled, FinancingConcluded:
		return true
	}
	return false
}

// FinancingProcess is the correspondent-bank workflow behind a financed
// purchase. One-to-zero-or-one with a negotiation; created only by the
// service-request bridge and never deleted.
type FinancingProcess struct {
	BaseModel
	NegotiationID     uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex;column:negotiation_id"`
	Negotiation       *Negotiation          `gorm:"foreignKey:NegotiationID"`
	ClientStatus      FinancingClientStatus `gorm:"type:varchar(50);not null;default:'pending';column:client_status"`
	BacenInfo         string                `gorm:"type:varchar(500);column:bacen_info"`
	EngineeringStatus EngineeringStatus     `gorm:"type:varchar(50);not null;default:'not_requested';column:engineering_status"`

	// Documentation checklist: up-to-date flag plus optional due date per item.
	IdentityDoc             bool       `gorm:"not null;default:false;column:identity_doc"`
	IdentityDocDue          *time.Time `gorm:"column:identity_doc_due"`
	IncomeProof             bool       `gorm:"not null;default:false;column:income_proof"`
	IncomeProofDue          *time.Time `gorm:"column:income_proof_due"`
	AddressProof            bool       `gorm:"not null;default:false;column:address_proof"`
	AddressProofDue         *time.Time `gorm:"column:address_proof_due"`
	PropertyRegistration    bool       `gorm:"not null;default:false;column:property_registration"`
	PropertyRegistrationDue *time.Time `gorm:"column:property_registration_due"`
	SaleContract            bool       `gorm:"not null;default:false;column:sale_contract"`
	SaleContractDue         *time.Time `gorm:"column:sale_contract_due"`

	// Stage checklist.
	StageInterview     bool `gorm:"not null;default:false;column:stage_interview"`
	StageDocumentation bool `gorm:"not null;default:false;column:stage_documentation"`
	StageBankAnalysis  bool `gorm:"not null;default:false;column:stage_bank_analysis"`
	StageEngineering   bool `gorm:"not null;default:false;column:stage_engineering"`
	StageSigning       bool `gorm:"not null;default:false;column:stage_signing"`

	HasPendency bool            `gorm:"not null;default:true;column:has_pendency"`
	Status      FinancingStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	Notes       string          `gorm:"type:text"`
}

// RecomputePendency derives HasPendency from the current sub-statuses.
// Must run before every save.
func (f *FinancingProcess) RecomputePendency() {
	f.HasPendency = f.ClientStatus != FinancingClientApproved ||
		f.bacenRestricted() ||
		f.EngineeringStatus != EngineeringApproved ||
		!f.allDocsUpdated()
}

func (f *FinancingProcess) bacenRestricted() bool {
	return strings.Contains(strings.ToLower(f.BacenInfo), "restri")
}

func (f *FinancingProcess) allDocsUpdated() bool {
	return f.IdentityDoc && f.IncomeProof && f.AddressProof &&
		f.PropertyRegistration && f.SaleContract
}

// Process is an administrative process loosely linked to a negotiation
type Process struct {
	BaseModel
	NegotiationID   *uuid.UUID     `gorm:"type:uuid;index;column:negotiation_id"`
	Negotiation     *Negotiation   `gorm:"foreignKey:NegotiationID"`
	NegotiationCode string         `gorm:"type:varchar(50);column:negotiation_code"`
	Title           string         `gorm:"type:varchar(200);not null"`
	Status          ProcessStatus  `gorm:"type:varchar(50);not null;default:'active';index"`
	Stage           ProcessStage   `gorm:"type:varchar(50);not null;default:'in_progress'"`
	Team            pq.StringArray `gorm:"type:text[]"`
	Observations    string         `gorm:"type:text"`
}

// CodeSequence backs display-code generation, one row per year.
type CodeSequence struct {
	Year      int       `gorm:"primaryKey"`
	Value     int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}
