package model_test

import (
	"errors"
	"testing"

	"backupctl/internal/model"
)

func TestCheckReport_Healthy(t *testing.T) {
	tests := []struct {
		name   string
		report model.CheckReport
		want   bool
	}{
		{
			name:   "no findings",
			report: model.CheckReport{},
			want:   true,
		},
		{
			name:   "corrupt hash present",
			report: model.CheckReport{CorruptHashes: []string{"abc"}},
			want:   false,
		},
		{
			name:   "missing hash present",
			report: model.CheckReport{MissingHashes: []string{"abc"}},
			want:   false,
		},
		{
			name:   "structural error present",
			report: model.CheckReport{StructuralError: errors.New("boom")},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.report.Healthy(); got != tt.want {
				t.Errorf("Healthy() = %v, want %v", got, tt.want)
			}
		})
	}
}
