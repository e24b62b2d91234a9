package domain

// PageKey selects which view renders.
type PageKey string

const (
	PageDashboard            PageKey = "dashboard"
	PageDepartmentDashboard  PageKey = "department-dashboard"
	PageFileExpense          PageKey = "file-expense"
	PagePreBook              PageKey = "pre-book"
	PageTrackRequests        PageKey = "track-requests"
	PageUsageTracker         PageKey = "usage-tracker"
	PageApprovalQueue        PageKey = "approval-queue"
	PageUserManagement       PageKey = "user-management"
	PageDepartmentManagement PageKey = "department-management"
	PageBudgetAllocation     PageKey = "budget-allocation"
	PageExpenseCategories    PageKey = "expense-categories"
	PageApprovalWorkflow     PageKey = "approval-workflow"
	PageAuditLogs            PageKey = "audit-logs"
	PageTaxManagement        PageKey = "tax-management"
	PageVendorManagement     PageKey = "vendor-management"
	PagePolicyManagement     PageKey = "policy-management"
	PageIntegrationSettings  PageKey = "integration-settings"
	PageBackupRestore        PageKey = "backup-restore"
	PageReports              PageKey = "reports"
	PageNotifications        PageKey = "notifications"
	PageSettings             PageKey = "settings"
)

var pages = []PageKey{
	PageDashboard,
	PageDepartmentDashboard,
	PageFileExpense,
	PagePreBook,
	PageTrackRequests,
	PageUsageTracker,
	PageApprovalQueue,
	PageUserManagement,
	PageDepartmentManagement,
	PageBudgetAllocation,
	PageExpenseCategories,
	PageApprovalWorkflow,
	PageAuditLogs,
	PageTaxManagement,
	PageVendorManagement,
	PagePolicyManagement,
	PageIntegrationSettings,
	PageBackupRestore,
	PageReports,
	PageNotifications,
	PageSettings,
}

// Pages returns every page key.
func Pages() []PageKey {
	out := make([]PageKey, len(pages))
	copy(out, pages)
	return out
}

func (p PageKey) Valid() bool {
	for _, k := range pages {
		if k == p {
			return true
		}
	}
	return false
}

// ParsePage maps s to a page key. Anything unknown lands on the dashboard.
func ParsePage(s string) PageKey {
	if p := PageKey(s); p.Valid() {
		return p
	}
	return PageDashboard
}

func (p PageKey) String() string { return string(p) }
