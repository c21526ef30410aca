package conversation

import "testing"

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	base := Conversation{}.Append(User("input"))

	first := base.Append(System("stage one"))
	second := base.Append(System("stage two"))

	if len(base) != 1 {
		t.Fatalf("base length = %d, want 1", len(base))
	}
	if first[1].Text != "stage one" {
		t.Errorf("first branch = %q, want stage one", first[1].Text)
	}
	if second[1].Text != "stage two" {
		t.Errorf("second branch = %q, want stage two", second[1].Text)
	}
}

func TestAppendDoesNotShareBackingArray(t *testing.T) {
	base := make(Conversation, 0, 8).Append(User("input"))

	grown := base.Append(System("stage one"))
	grown[0].Text = "mutated"

	if base[0].Text != "input" {
		t.Error("appending shared the backing array with the receiver")
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	conv := Conversation{}.
		Append(User("input")).
		Append(System("s1"), Assistant("a1")).
		Append(System("s2"))

	wantRoles := []Role{RoleUser, RoleSystem, RoleAssistant, RoleSystem}
	if len(conv) != len(wantRoles) {
		t.Fatalf("length = %d, want %d", len(conv), len(wantRoles))
	}
	for i, role := range wantRoles {
		if conv[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, conv[i].Role, role)
		}
	}
}

func TestLast(t *testing.T) {
	var empty Conversation
	if _, ok := empty.Last(); ok {
		t.Error("Last on empty conversation reported ok")
	}

	conv := Conversation{}.Append(User("a"), Assistant("b"))
	last, ok := conv.Last()
	if !ok || last.Text != "b" {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}
