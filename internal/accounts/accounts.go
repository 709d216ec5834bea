package accounts

// Kind classifies chart entries: offering codes feed the income ledger,
// expense accounts feed the expense ledger.
type Kind string

const (
	KindOffering Kind = "offering"
	KindExpense  Kind = "expense"
)

// Account is one row in the classification chart: an offering code or an
// expense account code with its display name.
type Account struct {
	Code        string
	Name        string
	Kind        Kind
	Description string
}
