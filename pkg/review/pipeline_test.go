package review

import (
	"errors"
	"strings"
	"testing"
)

func TestNewPipelineValidation(t *testing.T) {
	tests := []struct {
		name    string
		stages  []Stage
		wantErr string
	}{
		{
			name:    "no stages",
			stages:  nil,
			wantErr: "at least one stage",
		},
		{
			name:    "missing name",
			stages:  []Stage{{Instructions: "review it"}},
			wantErr: "stage name is required",
		},
		{
			name:    "missing instructions",
			stages:  []Stage{{Name: "correctness"}},
			wantErr: "must have instructions",
		},
		{
			name: "duplicate name",
			stages: []Stage{
				{Name: "correctness", Instructions: "a"},
				{Name: "correctness", Instructions: "b"},
			},
			wantErr: "duplicate stage name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPipeline("p", tt.stages)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var configErr *ConfigurationError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigurationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewPipelineDefaultsName(t *testing.T) {
	p, err := NewPipeline("", []Stage{{Name: "only", Instructions: "review"}})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if p.Name() != "review" {
		t.Errorf("name = %q, want %q", p.Name(), "review")
	}
}

func TestPipelineStagesReturnsCopy(t *testing.T) {
	p, err := NewPipeline("p", []Stage{
		{Name: "first", Instructions: "a"},
		{Name: "second", Instructions: "b"},
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	stages := p.Stages()
	stages[0].Name = "mutated"

	if p.Stages()[0].Name != "first" {
		t.Error("mutating the returned slice changed the pipeline")
	}
}

func TestPipelineOwnsInputSlice(t *testing.T) {
	input := []Stage{{Name: "first", Instructions: "a"}}
	p, err := NewPipeline("p", input)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	input[0].Name = "mutated"

	if p.Stages()[0].Name != "first" {
		t.Error("mutating the input slice changed the pipeline")
	}
}

func TestDefaultPipeline(t *testing.T) {
	p := DefaultPipeline()
	if p.Len() != 4 {
		t.Fatalf("stage count = %d, want 4", p.Len())
	}
	stages := p.Stages()
	if stages[len(stages)-1].Name != "synthesis" {
		t.Errorf("last stage = %q, want synthesis", stages[len(stages)-1].Name)
	}
	for _, s := range stages {
		if s.Instructions == "" {
			t.Errorf("stage %s has no instructions", s.Name)
		}
	}
}
