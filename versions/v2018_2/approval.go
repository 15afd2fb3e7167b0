// approval.go: Build approval feature
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package v2018_2

import "github.com/agilira/themis"

var (
	apRules              = themis.String("approvalRules", "rules")
	apTimeout            = themis.Int("timeout")
	apManualRunsApproved = themis.Bool("manualRunsApproved", "manualStartIsApproval").Values("true", "")
)

var approval = &themis.Kind{
	Name:      "Approval",
	Type:      "approval-feature",
	Fields:    []themis.Field{apRules, apTimeout, apManualRunsApproved},
	Mandatory: []string{"approvalRules"},
}

// Approval holds queued builds until the configured users approve them
type Approval struct {
	*themis.Entity
}

// NewApproval builds the feature; init may be nil
func NewApproval(init func(a *Approval)) (*Approval, error) {
	e, err := approval.New(nil, func(e *themis.Entity) {
		if init != nil {
			init(&Approval{e})
		}
	})
	if err != nil {
		return nil, err
	}
	return &Approval{e}, nil
}

func (a *Approval) ApprovalRules() (string, bool) { return apRules.Get(a) }
func (a *Approval) SetApprovalRules(v string)     { apRules.Set(a, v) }

// Timeout is in minutes
func (a *Approval) Timeout() (int, bool, error) { return apTimeout.Get(a) }
func (a *Approval) SetTimeout(v int)            { apTimeout.Set(a, v) }

func (a *Approval) ManualRunsApproved() (bool, bool) { return apManualRunsApproved.Get(a) }
func (a *Approval) SetManualRunsApproved(v bool)     { apManualRunsApproved.Set(a, v) }

// Validate collects every problem of the feature
func (a *Approval) Validate() themis.ValidationErrors {
	var errs themis.ValidationErrors
	themis.Validate(a.Entity, &errs)
	return errs
}
