package domain

// Stage and contract-status moves triggered by board drags. Settlement and
// contract generation bypass these checks on purpose: they are the only
// writers allowed to enter a terminal stage.

// CanMoveStage reports whether a drag from one stage to another is allowed.
// A completed negotiation cannot be moved, and no drag may enter a terminal
// stage. Every non-terminal pair is allowed in both directions.
func CanMoveStage(from, to NegotiationStage) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from.IsTerminal() || to.IsTerminal() {
		return false
	}
	return from != to
}

// CanMoveContractStatus reports whether a contract-status drag is allowed.
// Contract columns move freely; only the negotiation's completion locks
// them, which callers check via Negotiation.IsCompleted.
func CanMoveContractStatus(from, to ContractStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	return from != to
}
