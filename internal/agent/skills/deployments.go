package skills

import (
	"fmt"
	"time"

	"github.com/opsdesk-poc/server/internal/agent/charts"
	"github.com/opsdesk-poc/server/internal/agent/refdata"
)

// Deployment selects which skill set the agent exposes.
type Deployment string

const (
	DeploymentSupport       Deployment = "support"
	DeploymentManufacturing Deployment = "manufacturing"
)

func ParseDeployment(s string) (Deployment, error) {
	switch Deployment(s) {
	case DeploymentSupport, DeploymentManufacturing:
		return Deployment(s), nil
	default:
		return "", fmt.Errorf("unknown deployment %q (want %q or %q)", s, DeploymentSupport, DeploymentManufacturing)
	}
}

// NewSupportRegistry builds the customer-support skill set.
func NewSupportRegistry(data *refdata.Store, now func() time.Time) *Registry {
	return NewRegistry(
		newOrderLookupSkill(data),
		newProcessRefundSkill(data, now),
		newFAQSearchSkill(data),
		newEscalateToHumanSkill(now),
		newAnalyzeSentimentSkill(),
	)
}

// NewManufacturingRegistry builds the manufacturing-operations skill set.
func NewManufacturingRegistry(data *refdata.Store, chartStore *charts.Store, now func() time.Time) *Registry {
	return NewRegistry(
		newWorkOrderLookupSkill(data),
		newEquipmentStatusSkill(data),
		newMaterialLookupSkill(data),
		newLogDefectSkill(data, now),
		newEscalateToEngineerSkill(now),
		newAnalyzeSentimentSkill(),
		newKBSearchSkill(data),
		newGenerateChartSkill(data, chartStore),
	)
}

// NewDeploymentRegistry dispatches on the configured deployment.
func NewDeploymentRegistry(d Deployment, data *refdata.Store, chartStore *charts.Store, now func() time.Time) (*Registry, error) {
	switch d {
	case DeploymentSupport:
		return NewSupportRegistry(data, now), nil
	case DeploymentManufacturing:
		return NewManufacturingRegistry(data, chartStore, now), nil
	default:
		return nil, fmt.Errorf("unknown deployment %q", d)
	}
}
