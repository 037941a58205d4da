package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMoveStage(t *testing.T) {
	tests := []struct {
		name    string
		from    NegotiationStage
		to      NegotiationStage
		allowed bool
	}{
		{"forward between open stages", StageProposalSent, StageInNegotiation, true},
		{"backward between open stages", StageContractGenerated, StageProposalSent, true},
		{"skip a stage", StageProposalSent, StageContractGenerated, true},
		{"same stage", StageInNegotiation, StageInNegotiation, false},
		{"into sale completed", StageContractGenerated, StageSaleCompleted, false},
		{"into rental active", StageInNegotiation, StageRentalActive, false},
		{"out of sale completed", StageSaleCompleted, StageInNegotiation, false},
		{"out of rental active", StageRentalActive, StageProposalSent, false},
		{"between terminal stages", StageSaleCompleted, StageRentalActive, false},
		{"unknown source stage", NegotiationStage("bogus"), StageInNegotiation, false},
		{"unknown target stage", StageProposalSent, NegotiationStage("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanMoveStage(tt.from, tt.to))
		})
	}
}

func TestCanMoveContractStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    ContractStatus
		to      ContractStatus
		allowed bool
	}{
		{"not generated to pending", ContractNotGenerated, ContractPendingSignatures, true},
		{"pending to signed", ContractPendingSignatures, ContractSigned, true},
		{"signed back to pending", ContractSigned, ContractPendingSignatures, true},
		{"signed to cancelled", ContractSigned, ContractCancelled, true},
		{"cancelled back to not generated", ContractCancelled, ContractNotGenerated, true},
		{"same status", ContractSigned, ContractSigned, false},
		{"unknown source status", ContractStatus("bogus"), ContractSigned, false},
		{"unknown target status", ContractSigned, ContractStatus("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanMoveContractStatus(tt.from, tt.to))
		})
	}
}
