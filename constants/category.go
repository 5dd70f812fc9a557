package constants

// DocumentCategory tells what kind of letter a text is, independent of the contract type.
type DocumentCategory string

const (
	ActiveContract           DocumentCategory = "ACTIVE_CONTRACT"
	CancellationConfirmation DocumentCategory = "CANCELLATION_CONFIRMATION"
	Invoice                  DocumentCategory = "INVOICE"
)

// ContractType is the subject matter of a contract.
type ContractType string

const (
	Purchase   ContractType = "PURCHASE"
	Employment ContractType = "EMPLOYMENT"
	Rental     ContractType = "RENTAL"
	Telecom    ContractType = "TELECOM"
	Insurance  ContractType = "INSURANCE"
	Loan       ContractType = "LOAN"
	Service    ContractType = "SERVICE"
	Other      ContractType = "OTHER"
)

// allContractTypes is also the tie-break order of the classifier.
var allContractTypes = []ContractType{
	Purchase,
	Employment,
	Rental,
	Telecom,
	Insurance,
	Loan,
	Service,
	Other,
}

// ContractTypes returns every contract type in tie-break order.
func ContractTypes() []ContractType {
	out := make([]ContractType, len(allContractTypes))
	copy(out, allContractTypes)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allContractTypes))
	for i, ct := range allContractTypes {
		result[i] = string(ct)
	}
	return result
}
