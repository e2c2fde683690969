// Wire models of the dashboard API.
package rest

import "time"

// Envelope wraps every successful response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// Error Модель ошибок
type Error struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Code      ErrorCode `json:"code"`
	SupportID string    `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string

type Product struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Price             float64   `json:"price"`
	AvailableQuantity int       `json:"availableQuantity"`
	SoldQuantity      int       `json:"soldQuantity"`
	InitialQuantity   int       `json:"initialQuantity"`
	CostPrice         float64   `json:"costPrice,omitempty"`
	Category          string    `json:"category"`
	Status            string    `json:"status"`
	DateCreated       time.Time `json:"dateCreated"`
}

type PricingCondition struct {
	Type     string  `json:"type" validate:"required"`
	Operator string  `json:"operator" validate:"required"`
	Value    float64 `json:"value"`
	Field    string  `json:"field,omitempty"`
}

type PricingLimits struct {
	MinPrice            float64 `json:"minPrice,omitempty" validate:"gte=0"`
	MaxPrice            float64 `json:"maxPrice,omitempty" validate:"gte=0"`
	MaxPercentageChange float64 `json:"maxPercentageChange,omitempty" validate:"gte=0"`
	MinMargin           float64 `json:"minMargin,omitempty"`
}

type PricingAction struct {
	Type   string         `json:"type" validate:"required"`
	Value  float64        `json:"value"`
	Unit   string         `json:"unit,omitempty"`
	Limits *PricingLimits `json:"limits,omitempty"`
}

type PricingRuleInput struct {
	Name        string             `json:"name" validate:"required,max=120"`
	Description string             `json:"description" validate:"max=500"`
	Priority    int                `json:"priority" validate:"gte=0"`
	Conditions  []PricingCondition `json:"conditions" validate:"dive"`
	Actions     []PricingAction    `json:"actions" validate:"required,min=1,dive"`
	IsActive    bool               `json:"isActive"`
}

type PricingRule struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Priority       int                `json:"priority"`
	Conditions     []PricingCondition `json:"conditions"`
	Actions        []PricingAction    `json:"actions"`
	IsActive       bool               `json:"isActive"`
	ExecutionCount int                `json:"executionCount"`
	LastExecuted   *time.Time         `json:"lastExecuted,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type PricingExecution struct {
	ID         string    `json:"id"`
	RuleID     string    `json:"ruleId"`
	RuleName   string    `json:"ruleName"`
	ProductID  string    `json:"productId"`
	ExecutedAt time.Time `json:"executedAt"`
	Status     string    `json:"status"`
	OldPrice   float64   `json:"oldPrice"`
	NewPrice   float64   `json:"newPrice"`
	Reason     string    `json:"reason"`
	Error      string    `json:"error,omitempty"`
}

type PricingAlert struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	ProductID    string    `json:"productId"`
	RuleID       string    `json:"ruleId"`
	Message      string    `json:"message"`
	Severity     string    `json:"severity"`
	OldPrice     float64   `json:"oldPrice"`
	NewPrice     float64   `json:"newPrice"`
	CreatedAt    time.Time `json:"createdAt"`
	Acknowledged bool      `json:"acknowledged"`
}

type PricingStats struct {
	TotalRules           int     `json:"totalRules"`
	ActiveRules          int     `json:"activeRules"`
	TotalExecutions      int     `json:"totalExecutions"`
	SuccessfulExecutions int     `json:"successfulExecutions"`
	FailedExecutions     int     `json:"failedExecutions"`
	SkippedExecutions    int     `json:"skippedExecutions"`
	SuccessRate          float64 `json:"successRate"`
	AveragePriceChange   float64 `json:"averagePriceChange"`
	OpenAlerts           int     `json:"openAlerts"`
}

type RunRequest struct {
	ProductIDs []string `json:"productIds"`
}

type RunResult struct {
	Executions []PricingExecution `json:"executions"`
	Success    int                `json:"success"`
	Failed     int                `json:"failed"`
	Skipped    int                `json:"skipped"`
}

type PreviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type PreviewResult struct {
	ProductID       string   `json:"productId"`
	ConditionsValid bool     `json:"conditionsValid"`
	ConditionErrors []string `json:"conditionErrors"`
	CurrentPrice    float64  `json:"currentPrice"`
	NewPrice        float64  `json:"newPrice"`
	LimitsValid     bool     `json:"limitsValid"`
	LimitErrors     []string `json:"limitErrors"`
}

type AsyncRunResult struct {
	TaskID string `json:"taskId"`
	Queue  string `json:"queue"`
}

type SchedulerStatus struct {
	State      string         `json:"state"`
	Running    bool           `json:"running"`
	Interval   string         `json:"interval"`
	LastRunAt  *time.Time     `json:"lastRunAt,omitempty"`
	LastResult map[string]int `json:"lastResult,omitempty"`
	LastError  string         `json:"lastError,omitempty"`
}

type CompetitorData struct {
	ProductID       string    `json:"productId"`
	CompetitorName  string    `json:"competitorName"`
	CompetitorPrice float64   `json:"competitorPrice"`
	LastUpdated     time.Time `json:"lastUpdated"`
	Availability    bool      `json:"availability"`
}

type Trend struct {
	ID            string    `json:"id"`
	Keyword       string    `json:"keyword"`
	Category      string    `json:"category"`
	SearchVolume  int       `json:"searchVolume"`
	GrowthPercent float64   `json:"growthPercent"`
	Competition   string    `json:"competition"`
	AveragePrice  float64   `json:"averagePrice"`
	Period        string    `json:"period"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Competitor struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ProductCount    int     `json:"productCount"`
	AveragePrice    float64 `json:"averagePrice"`
	ReputationLevel string  `json:"reputationLevel"`
	MarketShare     float64 `json:"marketShare"`
}

type Review struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"productId"`
	ProductTitle string     `json:"productTitle"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	BuyerName    string     `json:"buyerName"`
	CreatedAt    time.Time  `json:"createdAt"`
	Reply        string     `json:"reply,omitempty"`
	RepliedAt    *time.Time `json:"repliedAt,omitempty"`
}

type ReplyRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type ReputationMetrics struct {
	AverageRating        float64 `json:"averageRating"`
	TotalReviews         int     `json:"totalReviews"`
	PositivePercent      float64 `json:"positivePercent"`
	ResponseRate         float64 `json:"responseRate"`
	ClaimsRate           float64 `json:"claimsRate"`
	DelayedShipmentsRate float64 `json:"delayedShipmentsRate"`
	CancellationsRate    float64 `json:"cancellationsRate"`
	Temperature          int     `json:"temperature"`
	TemperatureLabel     string  `json:"temperatureLabel"`
}

type Insight struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

type AskResponse struct {
	Answer   string    `json:"answer"`
	Insights []Insight `json:"insights"`
}

type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

type Invite struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	InvitedBy string    `json:"invitedBy"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"token,omitempty"`
}

type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type UpdateInviteRequest struct {
	ID     string `json:"id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=resend revoke"`
}

type InviteVerification struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type RegisterRequest struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type Message struct {
	Message string `json:"message"`
}
