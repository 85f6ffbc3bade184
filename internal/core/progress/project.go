package progress

import (
	"errors"
	"fmt"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

func isProjectPayload(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj["framework"].([]any)
	return ok
}

// ParseProjectFrameworks extracts the framework instances attached to a
// project. Entries without a project framework id are skipped.
func ParseProjectFrameworks(raw []byte) ([]domain.FrameworkInstance, error) {
	payload, keys, ok := locate(raw, isProjectPayload)
	if !ok {
		return nil, domain.WrapError(domain.ErrUpstream, "parse project frameworks",
			fmt.Errorf("no framework list in payload; keys=%v", keys))
	}

	list := payload.(map[string]any)["framework"].([]any)
	out := make([]domain.FrameworkInstance, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		pfid, ok := firstInt(obj, []string{"project_framework_id", "projectFrameworkId"})
		if !ok {
			continue
		}
		frameworkID, _ := firstInt(obj, []string{"framework_id", "frameworkId"})
		out = append(out, domain.FrameworkInstance{
			FrameworkID:        frameworkID,
			FrameworkName:      firstString(obj, []string{"name", "framework_name", "frameworkName"}),
			ProjectFrameworkID: pfid,
		})
	}
	if len(list) > 0 && len(out) == 0 {
		return nil, domain.WrapError(domain.ErrUpstream, "parse project frameworks", errors.New("no usable framework entries"))
	}
	return out, nil
}
