package dto

import "bookly-api/modules/workflow/entity"

// CreateWorkflowRequest defines a new automation.
type CreateWorkflowRequest struct {
	Name    string         `json:"name"`
	Trigger string         `json:"trigger"`
	Actions entity.Actions `json:"actions"`
}

// UpdateWorkflowRequest mutates an automation. Nil fields keep their value.
type UpdateWorkflowRequest struct {
	Name     *string         `json:"name,omitempty"`
	Trigger  *string         `json:"trigger,omitempty"`
	Actions  *entity.Actions `json:"actions,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}
