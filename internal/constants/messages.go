package constants

const (
	MsgBalanceRetrieved      = "balance retrieved successfully"
	MsgHistoryRetrieved      = "history retrieved successfully"
	MsgCatalogRetrieved      = "catalog retrieved successfully"
	MsgPointsConverted       = "points converted successfully"
	MsgItemPurchased         = "item purchased successfully"
	MsgOwnedItemsRetrieved   = "owned items retrieved successfully"
	MsgOfferActivated        = "offer activated successfully"
	MsgOfferAlreadyActivated = "offer already activated"
	MsgJustificationPending  = "offer activated, justification pending"
	MsgJustificationIssued   = "justification issued successfully"
	MsgActivatedOffersListed = "activated offers retrieved successfully"
	MsgOffersReconciled      = "offers reconciled successfully"
	MsgBalanceAdjusted       = "balance adjusted successfully"
	MsgAuditCompleted        = "ledger audit completed"
)
