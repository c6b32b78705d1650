package analytics

import "time"

// RawOrder is a single order as delivered by a feed snapshot. Date is kept as
// the raw string because the feeds disagree on format; ParseDate decides.
type RawOrder struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Address       string  `json:"address"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	QuantityCode  string  `json:"quantity_code"` // explicit unit count, when the feed carries one
}

// RawCustomer is a customer record as delivered by a feed snapshot. The legacy
// feed carries its own running "last order" date and total, which the
// aggregator reconciles with the order feed.
type RawCustomer struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	LastOrder   string  `json:"last_order"`
	LegacyTotal float64 `json:"legacy_total"`
}

// LifecycleState is the binary activity classification.
type LifecycleState string

const (
	StateActive   LifecycleState = "active"
	StateInactive LifecycleState = "inactive"
)

// RiskFlag marks customers approaching inactivity. It is informational and
// orthogonal to LifecycleState: an at-risk customer is still active.
type RiskFlag string

const (
	RiskNone   RiskFlag = "none"
	RiskAtRisk RiskFlag = "at_risk"
)

// EnrichedCustomer is one logical customer, keyed by grouping key, with all
// derived metrics attached. Rebuilt from scratch on every Compute pass.
type EnrichedCustomer struct {
	Key            string         `json:"key"`
	Name           string         `json:"name,omitempty"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Address        string         `json:"address,omitempty"`
	TotalSpent     float64        `json:"total_spent"`
	OrderCount     int            `json:"order_count"`
	FirstOrderDate *time.Time     `json:"first_order_date,omitempty"`
	LastOrderDate  *time.Time     `json:"last_order_date,omitempty"`
	EstimatedUnits int            `json:"estimated_units"`
	DaysSinceOrder int            `json:"days_since_order"` // meaningful only when LastOrderDate is set
	State          LifecycleState `json:"state"`
	Risk           RiskFlag       `json:"risk"`
}

// AvgTicketRow is an EnrichedCustomer annotated with its average order value.
type AvgTicketRow struct {
	EnrichedCustomer
	AvgTicket float64 `json:"avg_ticket"`
}

// GrowthRow compares one customer's activity across two adjacent windows.
type GrowthRow struct {
	Key             string  `json:"key"`
	CurrentTotal    float64 `json:"current_total"`
	PreviousTotal   float64 `json:"previous_total"`
	CurrentOrders   int     `json:"current_orders"`
	PreviousOrders  int     `json:"previous_orders"`
	AbsoluteGrowth  float64 `json:"absolute_growth"`
	PercentGrowth   float64 `json:"percent_growth"`
	CurrentAvgOrder float64 `json:"current_avg_order"`
	PreviousAvgOrder float64 `json:"previous_avg_order"`
}

// Summary is the headline card roll-up.
type Summary struct {
	TotalCustomers       int       `json:"total_customers"`
	ActiveCustomers      int       `json:"active_customers"`
	InactiveCustomers    int       `json:"inactive_customers"`
	ChurnPercent         float64   `json:"churn_percent"`
	AtRiskCustomers      int       `json:"at_risk_customers"`
	NewCustomers         int       `json:"new_customers"`
	DualRankedCount      int       `json:"dual_ranked_count"`
	ReactivatedCustomers int       `json:"reactivated_customers"`
	TotalRevenue         float64   `json:"total_revenue"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// Result holds every derived view from a single Compute pass.
type Result struct {
	Customers  []EnrichedCustomer  `json:"customers"`
	VIP        []EnrichedCustomer  `json:"vip"`
	Frequency  []EnrichedCustomer  `json:"frequency"`
	DualRanked []EnrichedCustomer  `json:"dual_ranked"`
	AvgTicket  []AvgTicketRow      `json:"avg_ticket"`
	AtRisk     []EnrichedCustomer  `json:"at_risk"`
	Growth     map[int][]GrowthRow `json:"growth"` // keyed by window size in months
	Summary    Summary             `json:"summary"`
	ComputedAt time.Time           `json:"computed_at"`
}

// Config holds every threshold the engine uses. Zero values are replaced by
// the defaults below, so tests can override a single knob.
type Config struct {
	InactiveAfterDays   int      `yaml:"inactive_after_days"`   // active iff days since last order <= this
	AtRiskAfterDays     int      `yaml:"at_risk_after_days"`    // at-risk window lower bound (exclusive)
	FutureToleranceDays int      `yaml:"future_tolerance_days"` // orders dated slightly ahead of "now" still count
	MaxDataAgeDays      int      `yaml:"max_data_age_days"`     // older last-order dates are treated as bad data
	UnitPrice           float64  `yaml:"unit_price"`            // fallback price per unit for quantity estimates
	TopN                int      `yaml:"top_n"`                 // ranking list size
	ReactivationGapDays int      `yaml:"reactivation_gap_days"` // inter-order gap that counts as a reactivation
	NewCustomerDays     int      `yaml:"new_customer_days"`     // first order within this window = new customer
	GrowthWindowsMonths []int    `yaml:"growth_windows_months"` // window sizes to compute, in months
	BuildingSignatures  []string `yaml:"building_signatures"`   // multi-unit buildings needing per-unit keys
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		InactiveAfterDays:   75,
		AtRiskAfterDays:     60,
		FutureToleranceDays: 1,
		MaxDataAgeDays:      3650,
		UnitPrice:           2000,
		TopN:                15,
		ReactivationGapDays: 75,
		NewCustomerDays:     75,
		GrowthWindowsMonths: []int{3, 6},
		BuildingSignatures:  []string{"avenida la florida 10269"},
	}
}

// withDefaults fills zero-valued fields so a partially-populated Config (for
// example from yaml) behaves sensibly.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.InactiveAfterDays == 0 {
		c.InactiveAfterDays = def.InactiveAfterDays
	}
	if c.AtRiskAfterDays == 0 {
		c.AtRiskAfterDays = def.AtRiskAfterDays
	}
	if c.FutureToleranceDays == 0 {
		c.FutureToleranceDays = def.FutureToleranceDays
	}
	if c.MaxDataAgeDays == 0 {
		c.MaxDataAgeDays = def.MaxDataAgeDays
	}
	if c.UnitPrice == 0 {
		c.UnitPrice = def.UnitPrice
	}
	if c.TopN == 0 {
		c.TopN = def.TopN
	}
	if c.ReactivationGapDays == 0 {
		c.ReactivationGapDays = def.ReactivationGapDays
	}
	if c.NewCustomerDays == 0 {
		c.NewCustomerDays = def.NewCustomerDays
	}
	if len(c.GrowthWindowsMonths) == 0 {
		c.GrowthWindowsMonths = def.GrowthWindowsMonths
	}
	if c.BuildingSignatures == nil {
		c.BuildingSignatures = def.BuildingSignatures
	}
	return c
}
