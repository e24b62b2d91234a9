// Package navigation resolves the sidebar menu for a role.
package navigation

import "github.com/aussiebroadwan/expenseflow/internal/expense/domain"

// Item is one sidebar entry. Groups carry Children and no page of their own.
type Item struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Group    bool   `json:"group,omitempty"`
	Expanded bool   `json:"expanded,omitempty"`
	Children []Item `json:"children,omitempty"`
}

func page(p domain.PageKey, label, icon string) Item {
	return Item{ID: p.String(), Label: label, Icon: icon}
}

func group(id, label, icon string, children ...Item) Item {
	return Item{ID: id, Label: label, Icon: icon, Group: true, Expanded: true, Children: children}
}

// MenuFor returns the ordered menu for role. Notifications and reports close
// every menu. Unknown roles get the requestor menu. The result is freshly
// built on each call and safe to modify.
func MenuFor(role domain.Role) []Item {
	var items []Item

	switch domain.ResolveRole(role.String()) {
	case domain.RoleApprover:
		items = []Item{
			page(domain.PageDepartmentDashboard, "Department Dashboard", "home"),
			page(domain.PageApprovalQueue, "Approval Queue", "check-square"),
			page(domain.PageUsageTracker, "Budget Usage", "dollar-sign"),
		}

	case domain.RoleAccounts:
		items = []Item{
			page(domain.PageDepartmentDashboard, "Accounts Dashboard", "home"),
			page(domain.PageApprovalQueue, "Final Approvals", "check-square"),
			page(domain.PageBudgetAllocation, "Budget Allocation", "credit-card"),
			page(domain.PageUsageTracker, "Budget Usage", "dollar-sign"),
			page(domain.PageTaxManagement, "Tax Management", "receipt"),
			page(domain.PageVendorManagement, "Vendor Management", "briefcase"),
		}

	case domain.RoleAdmin:
		items = []Item{
			page(domain.PageDashboard, "Admin Dashboard", "home"),
			group("management", "Management", "building-2",
				page(domain.PageUserManagement, "User Management", "users"),
				page(domain.PageDepartmentManagement, "Departments", "building-2"),
				page(domain.PageBudgetAllocation, "Budget Allocation", "credit-card"),
				page(domain.PageExpenseCategories, "Expense Categories", "tag"),
				page(domain.PageVendorManagement, "Vendor Management", "briefcase"),
			),
			group("system", "System", "settings",
				page(domain.PageApprovalWorkflow, "Approval Workflow", "git-branch"),
				page(domain.PagePolicyManagement, "Policy Management", "file-check"),
				page(domain.PageTaxManagement, "Tax Management", "receipt"),
				page(domain.PageAuditLogs, "Audit Logs", "shield"),
				page(domain.PageIntegrationSettings, "Integrations", "zap"),
				page(domain.PageBackupRestore, "Backup & Restore", "database"),
				page(domain.PageSettings, "System Settings", "settings"),
			),
			page(domain.PageTrackRequests, "All Requests", "clock"),
		}

	default:
		items = []Item{
			page(domain.PageDashboard, "My Dashboard", "home"),
			page(domain.PageFileExpense, "File Expense", "file-text"),
			page(domain.PagePreBook, "Pre-Book Request", "calendar"),
			page(domain.PageTrackRequests, "Track My Requests", "clock"),
			page(domain.PageUsageTracker, "Budget Usage", "dollar-sign"),
		}
	}

	return append(items,
		page(domain.PageNotifications, "Notifications", "bell"),
		page(domain.PageReports, "Reports", "bar-chart-3"),
	)
}

// Contains reports whether id appears anywhere in items, nested groups included.
func Contains(items []Item, id string) bool {
	for _, it := range items {
		if it.ID == id || Contains(it.Children, id) {
			return true
		}
	}
	return false
}

// Leaves flattens items into the page IDs they link to, in menu order.
func Leaves(items []Item) []string {
	var out []string
	for _, it := range items {
		if it.Group {
			out = append(out, Leaves(it.Children)...)
			continue
		}
		out = append(out, it.ID)
	}
	return out
}
