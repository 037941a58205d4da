package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleType_IsAdministrative(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdministrative())
	assert.True(t, RoleAgency.IsAdministrative())
	assert.False(t, RoleRealtor.IsAdministrative())
	assert.False(t, RoleSalesperson.IsAdministrative())
	assert.False(t, RoleCorrespondent.IsAdministrative())
	assert.False(t, RoleClient.IsAdministrative())
}

func TestNegotiationStage_IsTerminal(t *testing.T) {
	assert.True(t, StageSaleCompleted.IsTerminal())
	assert.True(t, StageRentalActive.IsTerminal())
	assert.False(t, StageProposalSent.IsTerminal())
	assert.False(t, StageInNegotiation.IsTerminal())
	assert.False(t, StageContractGenerated.IsTerminal())
}

func TestNegotiation_IsCompleted(t *testing.T) {
	n := &Negotiation{Stage: StageInNegotiation}
	assert.False(t, n.IsCompleted())

	n.Stage = StageSaleCompleted
	assert.True(t, n.IsCompleted())

	n.Stage = StageRentalActive
	assert.True(t, n.IsCompleted())
}

func approvedProcess() *FinancingProcess {
	return &FinancingProcess{
		ClientStatus:         FinancingClientApproved,
		EngineeringStatus:    EngineeringApproved,
		IdentityDoc:          true,
		IncomeProof:          true,
		AddressProof:         true,
		PropertyRegistration: true,
		SaleContract:         true,
	}
}

func TestFinancingProcess_RecomputePendency(t *testing.T) {
	t.Run("all clear", func(t *testing.T) {
		p := approvedProcess()
		p.RecomputePendency()
		assert.False(t, p.HasPendency)
	})

	t.Run("client not approved", func(t *testing.T) {
		p := approvedProcess()
		p.ClientStatus = FinancingClientPending
		p.RecomputePendency()
		assert.True(t, p.HasPendency)
	})

	t.Run("engineering not approved", func(t *testing.T) {
		p := approvedProcess()
		p.EngineeringStatus = EngineeringRequested
		p.RecomputePendency()
		assert.True(t, p.HasPendency)
	})

	t.Run("missing document", func(t *testing.T) {
		p := approvedProcess()
		p.IncomeProof = false
		p.RecomputePendency()
		assert.True(t, p.HasPendency)
	})

	t.Run("bacen restriction", func(t *testing.T) {
		p := approvedProcess()
		p.BacenInfo = "Restrição ativa no Bacen"
		p.RecomputePendency()
		assert.True(t, p.HasPendency)
	})

	t.Run("clean bacen note", func(t *testing.T) {
		p := approvedProcess()
		p.BacenInfo = "Nada consta"
		p.RecomputePendency()
		assert.False(t, p.HasPendency)
	})
}
