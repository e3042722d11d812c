package template

import (
	"encoding/json"
	"fmt"
)

type replicasPatch struct {
	Spec struct {
		Replicas int32 `json:"replicas"`
	} `json:"spec"`
}

// BuildReplicasPatch returns a JSON merge patch that sets spec.replicas.
func BuildReplicasPatch(replicas int32) ([]byte, error) {
	var p replicasPatch
	p.Spec.Replicas = replicas

	out, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding replicas patch: %w", err)
	}
	return out, nil
}
