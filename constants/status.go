package constants

// DataSource tags how a date was obtained. Downstream schedulers suppress reminders for weak sources.
type DataSource string

// Stable values (exposed verbatim to consumers).
const (
	SourceExtracted  DataSource = "extracted"  // read from the text
	SourceCalculated DataSource = "calculated" // auto-renewal rollover
	SourceEstimated  DataSource = "estimated"  // contract-type default table
)

// DateRole distinguishes contract start and end dates.
type DateRole string

const (
	RoleStart DateRole = "START"
	RoleEnd   DateRole = "END"
)

// CancellationKind describes how a notice period is anchored.
type CancellationKind string

const (
	KindStandard          CancellationKind = "STANDARD"
	KindDaily             CancellationKind = "DAILY"
	KindEndOfPeriod       CancellationKind = "END_OF_PERIOD"
	KindQuarterlyDeadline CancellationKind = "QUARTERLY_DEADLINE"
	KindMonthlyDeadline   CancellationKind = "MONTHLY_DEADLINE"
)

// RiskLevel summarises how urgently a contract needs attention.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// CostInterval is the billing rhythm of an amount.
type CostInterval string

const (
	IntervalMonthly CostInterval = "MONTHLY"
	IntervalYearly  CostInterval = "YEARLY"
	IntervalOnce    CostInterval = "ONCE"
	IntervalUnknown CostInterval = "UNKNOWN"
)

// Rating is the traffic-light grade of a quick fact.
type Rating string

const (
	RatingGood     Rating = "good"
	RatingWarning  Rating = "warning"
	RatingCritical Rating = "critical"
	RatingNeutral  Rating = "neutral"
)
