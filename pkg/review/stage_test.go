package review

import (
	"testing"

	"github.com/zen-systems/reviewgate/pkg/conversation"
)

func TestStageSystemMessage(t *testing.T) {
	stage := Stage{Name: "correctness", Instructions: "look closely"}
	msg := stage.SystemMessage()
	if msg.Role != conversation.RoleSystem {
		t.Errorf("role = %q, want system", msg.Role)
	}
	if msg.Text != "look closely" {
		t.Errorf("text = %q", msg.Text)
	}
}

func TestDefaultStagesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range DefaultStages() {
		if seen[s.Name] {
			t.Errorf("duplicate stage %s", s.Name)
		}
		seen[s.Name] = true
	}
}
