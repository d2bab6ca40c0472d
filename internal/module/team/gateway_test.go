package team

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePermissionPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
		wantErr bool
	}{
		{
			name:    "array of strings",
			payload: `["read_tasks", "write_tasks"]`,
			want:    []string{"read_tasks", "write_tasks"},
		},
		{
			name:    "array of records",
			payload: `[{"permission_name": "read_tasks"}, {"permission_name": "manage_team"}]`,
			want:    []string{"read_tasks", "manage_team"},
		},
		{
			name:    "records with blank names skipped",
			payload: `[{"permission_name": "read_tasks"}, {"permission_name": ""}]`,
			want:    []string{"read_tasks"},
		},
		{
			name:    "empty array",
			payload: `[]`,
			want:    nil,
		},
		{
			name:    "unrecognized shape",
			payload: `{"not": "a list"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizePermissionPayload([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalizePermissionPayloadNilInput(t *testing.T) {
	got, err := normalizePermissionPayload(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIsPolicyRecursion(t *testing.T) {
	assert.True(t, IsPolicyRecursion(errors.New(`pq: infinite recursion detected in policy for relation "project_members"`)))
	assert.True(t, IsPolicyRecursion(errors.New("INFINITE RECURSION detected")))
	assert.False(t, IsPolicyRecursion(errors.New("connection refused")))
	assert.False(t, IsPolicyRecursion(nil))
}

func TestTranslateBackendError(t *testing.T) {
	recursion := translateBackendError("has_project_permission", errors.New("infinite recursion detected in policy"))
	assert.ErrorIs(t, recursion, ErrPolicyRecursion)

	transport := translateBackendError("get_project_by_id", errors.New("connection refused"))
	assert.ErrorIs(t, transport, ErrGatewayFailure)
	assert.NotErrorIs(t, transport, ErrPolicyRecursion)
}
