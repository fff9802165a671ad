package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

func holdNotification(wf domain.AddressChangeWorkflow) domain.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "An address change for company %s needs approval.\n\n", wf.CompanyID)
	writeWorkflowSummary(&b, wf)
	if len(wf.ValidationResult.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range wf.ValidationResult.Warnings {
			fmt.Fprintf(&b, "- %s\n", w.Message)
		}
	}
	return domain.Notification{
		Subject: fmt.Sprintf("Address change awaiting approval: %s %s", wf.CompanyID, wf.AddressType),
		Body:    b.String(),
	}
}

func approvedNotification(wf domain.AddressChangeWorkflow) domain.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "The address change for company %s was approved by %s.\n\n", wf.CompanyID, wf.ApprovedBy)
	writeWorkflowSummary(&b, wf)
	return domain.Notification{
		Subject: fmt.Sprintf("Address change approved: %s %s", wf.CompanyID, wf.AddressType),
		Body:    b.String(),
	}
}

func rejectedNotification(wf domain.AddressChangeWorkflow) domain.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "The address change for company %s was rejected by %s.\nReason: %s\n\n", wf.CompanyID, wf.RejectedBy, wf.RejectionReason)
	writeWorkflowSummary(&b, wf)
	return domain.Notification{
		Subject: fmt.Sprintf("Address change rejected: %s %s", wf.CompanyID, wf.AddressType),
		Body:    b.String(),
	}
}

func writeWorkflowSummary(b *strings.Builder, wf domain.AddressChangeWorkflow) {
	fmt.Fprintf(b, "Workflow: %s\n", wf.WorkflowID)
	fmt.Fprintf(b, "Address type: %s\n", wf.AddressType)
	fmt.Fprintf(b, "Effective: %s\n", wf.EffectiveDate.Format(time.DateOnly))
	if wf.CurrentAddress != nil {
		fmt.Fprintf(b, "Current: %s\n", wf.CurrentAddress.OneLine())
	}
	fmt.Fprintf(b, "Proposed: %s\n", wf.ProposedAddress.OneLine())
}
