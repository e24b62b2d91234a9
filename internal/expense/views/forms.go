package views

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
)

type expenseForm struct {
	Category    string   `json:"category" validate:"required,oneof=food travel supplies equipment other"`
	Amount      float64  `json:"amount" validate:"gt=0"`
	Description string   `json:"description" validate:"required"`
	Department  string   `json:"department" validate:"required"`
	Approver1   string   `json:"approver1" validate:"required"`
	Approver2   string   `json:"approver2" validate:"required"`
	Attachments []string `json:"attachments" validate:"dive,required"`
}

type preBookForm struct {
	Category        string   `json:"category" validate:"required,oneof=food travel supplies equipment training other"`
	EstimatedAmount float64  `json:"estimatedAmount" validate:"gt=0"`
	RequestedDate   string   `json:"requestedDate" validate:"required,datetime=2006-01-02"`
	Description     string   `json:"description" validate:"required"`
	Justification   string   `json:"justification" validate:"required"`
	Department      string   `json:"department" validate:"required"`
	Approver1       string   `json:"approver1" validate:"required"`
	Approver2       string   `json:"approver2" validate:"required"`
	Attachments     []string `json:"attachments" validate:"dive,required"`
}

type approvalDecisionForm struct {
	RequestID string `json:"requestId" validate:"required"`
	Comments  string `json:"comments"`
}

type workflowStep struct {
	Name  string `json:"name" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=user_role specific_user"`
	Value string `json:"value" validate:"required"`
}

type workflowForm struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Steps       []workflowStep `json:"steps" validate:"required,min=1,dive"`
}

type exportForm struct {
	Format string `json:"format" validate:"omitempty,oneof=csv pdf excel"`
}

type backupForm struct {
	Name     string   `json:"name" validate:"required"`
	Type     string   `json:"type" validate:"omitempty,oneof=manual automatic"`
	Includes []string `json:"includes" validate:"dive,required"`
}

type restoreForm struct {
	BackupID string `json:"backupId" validate:"required"`
}

type budgetForm struct {
	Department       string    `json:"department" validate:"required"`
	AllocatedAmount  float64   `json:"allocatedAmount" validate:"gte=0"`
	QuarterlyBudgets []float64 `json:"quarterlyBudgets" validate:"omitempty,len=4,dive,gte=0"`
}

type departmentForm struct {
	Name        string  `json:"name" validate:"required"`
	Head        string  `json:"head" validate:"required"`
	Budget      float64 `json:"budget" validate:"gte=0"`
	Description string  `json:"description"`
}

type categoryForm struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description"`
	MaxAmount       float64 `json:"maxAmount" validate:"gt=0"`
	RequiresReceipt bool    `json:"requiresReceipt"`
}

type integrationForm struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
}

type notificationForm struct {
	ID string `json:"id" validate:"required"`
}

type policyForm struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
}

type reportForm struct {
	Format     string `json:"format" validate:"required,oneof=pdf excel csv"`
	ReportType string `json:"reportType"`
}

type settingsForm struct {
	General struct {
		CompanyName     string `json:"companyName" validate:"required"`
		Currency        string `json:"currency" validate:"required,len=3"`
		FiscalYearStart string `json:"fiscalYearStart" validate:"required"`
		Timezone        string `json:"timezone" validate:"required"`
	} `json:"general"`
	Approval struct {
		MaxApprovers          int     `json:"maxApprovers" validate:"gte=1,lte=5"`
		AutoApprovalLimit     float64 `json:"autoApprovalLimit" validate:"gte=0"`
		ApprovalTimeout       int     `json:"approvalTimeout" validate:"gte=1"`
		RequireSecondApproval bool    `json:"requireSecondApproval"`
		AllowSelfApproval     bool    `json:"allowSelfApproval"`
	} `json:"approval"`
	Budget struct {
		DefaultBudgetPeriod      string  `json:"defaultBudgetPeriod" validate:"required,oneof=monthly quarterly yearly"`
		BudgetWarningThreshold   int     `json:"budgetWarningThreshold" validate:"gte=0,lte=100"`
		BudgetAlertThreshold     int     `json:"budgetAlertThreshold" validate:"gte=0,lte=100"`
		AllowBudgetOverrun       bool    `json:"allowBudgetOverrun"`
		RequireJustificationOver float64 `json:"requireJustificationOver" validate:"gte=0"`
	} `json:"budget"`
	Security struct {
		SessionTimeout         int  `json:"sessionTimeout" validate:"gte=0"`
		RequirePasswordChange  bool `json:"requirePasswordChange"`
		PasswordChangeInterval int  `json:"passwordChangeInterval" validate:"gte=0"`
		EnableTwoFactor        bool `json:"enableTwoFactor"`
		AllowMultipleSessions  bool `json:"allowMultipleSessions"`
	} `json:"security"`
}

type taxRateForm struct {
	Name        string  `json:"name" validate:"required"`
	Rate        float64 `json:"rate" validate:"gte=0,lte=100"`
	Type        string  `json:"type" validate:"required"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type userForm struct {
	Username   string `json:"username" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	FullName   string `json:"fullName" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=requestor approver accounts admin"`
	Department string `json:"department" validate:"required"`
}

type emptyForm struct{}

func registry() map[domain.PageKey]map[string]action {
	decision := func(verb string) action {
		return handle(func(p *bluemonday.Policy, f *approvalDecisionForm) string {
			return fmt.Sprintf("Request %s has been %s!", p.Sanitize(f.RequestID), verb)
		})
	}
	notification := func(format string) action {
		return handle(func(p *bluemonday.Policy, f *notificationForm) string {
			return fmt.Sprintf(format, p.Sanitize(f.ID))
		})
	}

	return map[domain.PageKey]map[string]action{
		domain.PageFileExpense: {
			"submit": handle(func(p *bluemonday.Policy, f *expenseForm) string {
				return "Expense submitted successfully!" + attachmentSuffix(p, f.Attachments)
			}),
		},
		domain.PagePreBook: {
			"submit": handle(func(p *bluemonday.Policy, f *preBookForm) string {
				return "Pre-book request submitted successfully!" + attachmentSuffix(p, f.Attachments)
			}),
		},
		domain.PageApprovalQueue: {
			"approve": decision("approved"),
			"reject":  decision("rejected"),
		},
		domain.PageApprovalWorkflow: {
			"create": fixed[workflowForm]("Workflow created successfully!"),
		},
		domain.PageAuditLogs: {
			"export": fixed[exportForm]("Exporting audit logs..."),
		},
		domain.PageBackupRestore: {
			"create":  fixed[backupForm]("Backup created successfully!"),
			"restore": fixed[restoreForm]("Restore initiated successfully!"),
		},
		domain.PageBudgetAllocation: {
			"update": fixed[budgetForm]("Budget allocation updated successfully!"),
		},
		domain.PageDepartmentManagement: {
			"create": fixed[departmentForm]("Department created successfully!"),
		},
		domain.PageExpenseCategories: {
			"create": fixed[categoryForm]("Category created successfully!"),
		},
		domain.PageIntegrationSettings: {
			"create": fixed[integrationForm]("Integration added successfully!"),
		},
		domain.PageNotifications: {
			"mark-read":     notification("Notification %s marked as read"),
			"mark-unread":   notification("Notification %s marked as unread"),
			"delete":        notification("Notification %s deleted"),
			"mark-all-read": fixed[emptyForm]("All notifications marked as read"),
		},
		domain.PagePolicyManagement: {
			"create": fixed[policyForm]("Policy created successfully!"),
		},
		domain.PageReports: {
			"export": handle(func(_ *bluemonday.Policy, f *reportForm) string {
				return fmt.Sprintf("Exporting report as %s...", strings.ToUpper(f.Format))
			}),
		},
		domain.PageSettings: {
			"save": fixed[settingsForm]("Settings saved successfully!"),
		},
		domain.PageTaxManagement: {
			"create": fixed[taxRateForm]("Tax rate created successfully!"),
		},
		domain.PageUserManagement: {
			"create": fixed[userForm]("User created successfully!"),
		},
	}
}
