package types

// BillingCreditType tags the shape and downstream semantics of a billing
// credit record
type BillingCreditType string

const (
	// BillingCreditUpgradeRequest is a new paid activation
	BillingCreditUpgradeRequest BillingCreditType = "upgrade_request"

	// BillingCreditUpgradeBetweenMonthlies is a monthly tier upgrade
	BillingCreditUpgradeBetweenMonthlies BillingCreditType = "upgrade_between_monthlies"

	// BillingCreditUpgradeBetweenSubscribers is a subscriber tier upgrade
	BillingCreditUpgradeBetweenSubscribers BillingCreditType = "upgrade_between_subscribers"

	// BillingCreditBuyedCC is a credit purchase charged to a credit card
	BillingCreditBuyedCC BillingCreditType = "credit_buyed_cc"

	// BillingCreditRequest is a credit purchase settled by any other method
	BillingCreditRequest BillingCreditType = "credit_request"
)

// AccountingEntryType distinguishes invoice rows from payment rows
type AccountingEntryType string

const (
	AccountingEntryInvoice AccountingEntryType = "invoice"
	AccountingEntryPayment AccountingEntryType = "payment"
)

// AccountingEntryStatus is the settlement status recorded on an entry
type AccountingEntryStatus string

const (
	AccountingEntryStatusApproved AccountingEntryStatus = "approved"
	AccountingEntryStatusPending  AccountingEntryStatus = "pending"
	AccountingEntryStatusDeclined AccountingEntryStatus = "declined"
)

// CountryCode is the lowercase ISO 3166-1 alpha-2 billing country
type CountryCode string

const (
	CountryColombia  CountryCode = "co"
	CountryMexico    CountryCode = "mx"
	CountryArgentina CountryCode = "ar"
)

// BillingSystem identifies the downstream accounting system an entry is
// routed to
type BillingSystem string

const (
	// BillingSystemQBL is the default ledger and the one used for all
	// credit card entries
	BillingSystemQBL BillingSystem = "qbl"

	// BillingSystemMercadoPago routes wallet-settled entries
	BillingSystemMercadoPago BillingSystem = "mercado_pago"

	BillingSystemTransferCO BillingSystem = "transfer_co"
	BillingSystemTransferMX BillingSystem = "transfer_mx"
	BillingSystemTransferAR BillingSystem = "transfer_ar"
)

// BillingSystemForTransfer resolves the billing system for a transfer
// payment from the billing country
func BillingSystemForTransfer(country CountryCode) BillingSystem {
	switch country {
	case CountryColombia:
		return BillingSystemTransferCO
	case CountryMexico:
		return BillingSystemTransferMX
	case CountryArgentina:
		return BillingSystemTransferAR
	default:
		return BillingSystemQBL
	}
}

// Currency codes used by the billing flows
const (
	CurrencyUSD = "USD"
	CurrencyARS = "ARS"
	CurrencyMXN = "MXN"
	CurrencyCOP = "COP"
)

// LocalCurrencyFor returns the wallet settlement currency for a billing
// country, defaulting to USD
func LocalCurrencyFor(country CountryCode) string {
	switch country {
	case CountryArgentina:
		return CurrencyARS
	case CountryMexico:
		return CurrencyMXN
	case CountryColombia:
		return CurrencyCOP
	default:
		return CurrencyUSD
	}
}
