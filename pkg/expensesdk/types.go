package expensesdk

import (
	"time"

	"github.com/aussiebroadwan/expenseflow/pkg/jwtx"
)

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the {"error","error_description"} body every failing
// endpoint returns, except validation failures.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when a submitted form fails
// validation.
type ValidationErrorResponse struct {
	// Code is always "validation_error".
	Code string `json:"code"`

	Message string `json:"message"`

	// Details maps a JSON field path (e.g. "general.companyName") to its message.
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Identity Types
// ============================================================================

// User is the identity a session belongs to, exactly as captured at login.
type User struct {
	ID         string    `json:"id" example:"1"`
	Username   string    `json:"username" example:"john.doe"`
	Email      string    `json:"email" example:"john.doe@company.com"`
	FullName   string    `json:"fullName" example:"John Doe"`
	Role       string    `json:"role" example:"requestor" enums:"requestor,approver,accounts,admin"`
	Department string    `json:"department" example:"Engineering"`
	IsActive   bool      `json:"isActive" example:"true"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LoginRequest is accepted as JSON or as an urlencoded form.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"john.doe"`
	Password string `json:"password" validate:"required" example:"password"`
}

// LoginResponse is returned from POST /v1/session. The token is also set as
// the currentUser cookie.
type LoginResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId" example:"01J9ZKQ5W3C6T0Y3M8N2R4V7XB"`
	User      User   `json:"user"`
}

// SessionResponse describes the caller of GET /v1/session.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	SessionID     string `json:"sessionId,omitempty"`
	User          *User  `json:"user,omitempty"`
}

// SessionInfo is one entry of the admin session listing.
type SessionInfo struct {
	ID         string    `json:"id"`
	User       User      `json:"user"`
	CreatedAt  time.Time `json:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// ListSessionsResponse is returned from GET /v1/admin/sessions.
type ListSessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// ============================================================================
// Navigation and View Types
// ============================================================================

// MenuItem is one sidebar entry. Groups carry Children and no page.
type MenuItem struct {
	ID       string     `json:"id" example:"file-expense"`
	Label    string     `json:"label" example:"File Expense"`
	Icon     string     `json:"icon" example:"file-text"`
	Group    bool       `json:"group,omitempty"`
	Expanded bool       `json:"expanded,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// MenuResponse is returned from GET /v1/menu.
type MenuResponse struct {
	Role  string     `json:"role" example:"requestor"`
	Items []MenuItem `json:"items"`
}

// Highlight is a headline figure shown above a view's records.
type Highlight struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// Stat is a figure computed over all of a view's records.
type Stat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// View is returned from GET /v1/pages/{page}.
type View struct {
	// Page is the page that rendered. Unknown keys render the dashboard.
	Page string `json:"page" example:"dashboard"`

	// Requested holds the original key when it was not a known page.
	Requested string `json:"requested,omitempty"`

	Title      string           `json:"title" example:"My Dashboard"`
	Variant    string           `json:"variant,omitempty" example:"requestor"`
	Highlights []Highlight      `json:"highlights,omitempty"`
	Stats      []Stat           `json:"stats,omitempty"`
	Records    []map[string]any `json:"records"`
	Total      int              `json:"total"`
	Matched    int              `json:"matched"`
	Actions    []string         `json:"actions,omitempty"`
}

// ActionResponse acknowledges an accepted page action.
type ActionResponse struct {
	Page    string `json:"page" example:"file-expense"`
	Action  string `json:"action" example:"submit"`
	Message string `json:"message" example:"Expense submitted successfully!"`
}

// ============================================================================
// Key Types
// ============================================================================

// RotateKeysResponse lists the key IDs that sign new sessions after a
// rotation.
type RotateKeysResponse struct {
	Kids       []string `json:"kids"`
	Persistent bool     `json:"persistent"`
}

// JWKSResponse contains the public keys that verify session tokens.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime,omitempty" example:"1h23m45s"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
